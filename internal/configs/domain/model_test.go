package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMerge(t *testing.T) {
	t.Run("overrides win field by field", func(t *testing.T) {
		base := DefaultPayload()
		categories := map[string]string{"Custom": "Custom bucket"}

		out := Merge(base, PayloadInput{
			Example1:      strPtr("overridden"),
			CustomContext: strPtr("context"),
			USCategories:  &categories,
		})

		assert.Equal(t, "overridden", out.Example1)
		assert.Equal(t, "context", out.CustomContext)
		assert.Equal(t, categories, out.USCategories)
		// Untouched fields keep the base values.
		assert.Equal(t, base.Example2, out.Example2)
		assert.Equal(t, base.CategoriesFlag, out.CategoriesFlag)
	})

	t.Run("empty input is the identity", func(t *testing.T) {
		base := DefaultPayload()
		base.Client = "Acme Foods"
		assert.Equal(t, base, Merge(base, PayloadInput{}))
	})

	t.Run("explicit empty values overwrite", func(t *testing.T) {
		out := Merge(DefaultPayload(), PayloadInput{
			Example1:          strPtr(""),
			EmailConfirmation: &[]string{},
		})
		assert.Empty(t, out.Example1)
		assert.Empty(t, out.EmailConfirmation)
	})
}

func TestDefaultPayload(t *testing.T) {
	p := DefaultPayload()
	assert.Equal(t, "Y", p.CategoriesFlag)
	assert.Len(t, p.USCategories, 9)
	assert.NotNil(t, p.EmailConfirmation)
	assert.Empty(t, p.Client)
}

func TestPayloadRoundTrip(t *testing.T) {
	p := DefaultPayload()
	p.Client = "Acme Foods"
	p.InterviewTrackerGDriveID = "drive-123"

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded Payload
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, p, decoded)
}
