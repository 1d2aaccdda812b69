package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterviewCompleted(t *testing.T) {
	gdrive := "gd-1"
	empty := ""
	yes := true
	no := false

	base := Interview{
		GDriveID:            &gdrive,
		RequestDistillation: &yes,
		RequestCoaching:     &yes,
		RequestUserStories:  &yes,
	}
	assert.True(t, base.Completed())

	t.Run("requires a recording", func(t *testing.T) {
		iv := base
		iv.GDriveID = nil
		assert.False(t, iv.Completed())

		iv.GDriveID = &empty
		assert.False(t, iv.Completed())
	})

	t.Run("requires all three processing requests", func(t *testing.T) {
		iv := base
		iv.RequestCoaching = &no
		assert.False(t, iv.Completed())

		iv = base
		iv.RequestUserStories = nil
		assert.False(t, iv.Completed())
	})
}
