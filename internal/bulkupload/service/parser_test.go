package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/domain"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

var fullHeader = []any{
	"Client Name", "Client Code", "Project Name", "Project Description",
	"Stakeholder Names", "Stakeholder Emails", "Stakeholder Teams", "Stakeholder Roles",
}

func TestParseWorkbook(t *testing.T) {
	t.Run("full mode reads client, project and stakeholders", func(t *testing.T) {
		data := buildWorkbook(t, [][]any{
			fullHeader,
			{"Acme Foods", "ACME", "Retail Data Platform", "Unify retail data",
				"Jane Doe, Raj Patel", "jane@acme.example, raj@acme.example", "Data, Marketing", "Lead, Analyst"},
			{"", "", "", "", "Nobody", "orphan@acme.example", "", ""},
		})

		records, err := ParseWorkbook(data, domain.TypeFull)
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "Acme Foods", rec.ClientName)
		assert.Equal(t, "ACME", rec.ClientCode)
		assert.Equal(t, "Retail Data Platform", rec.ProjectName)
		assert.Equal(t, "Unify retail data", rec.ProjectDescription)
		require.Len(t, rec.Stakeholders, 2)
		assert.Equal(t, domain.StakeholderRow{
			Name: "Jane Doe", Email: "jane@acme.example", Team: "Data", Role: "Lead",
		}, rec.Stakeholders[0])
		assert.Equal(t, "raj@acme.example", rec.Stakeholders[1].Email)
	})

	t.Run("project mode ignores client columns", func(t *testing.T) {
		data := buildWorkbook(t, [][]any{
			fullHeader,
			{"", "", "Campaign Measurement", "Cross-channel reporting", "Mia Chen", "mia@nwm.example", "", ""},
		})

		records, err := ParseWorkbook(data, domain.TypeProject)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Empty(t, records[0].ClientName)
		assert.Equal(t, "Campaign Measurement", records[0].ProjectName)
		require.Len(t, records[0].Stakeholders, 1)
	})

	t.Run("stakeholder mode takes one stakeholder per row", func(t *testing.T) {
		data := buildWorkbook(t, [][]any{
			fullHeader,
			{"", "", "", "", "Jane Doe", "jane@acme.example", "Data", "Lead"},
			{"", "", "", "", "No Email", "", "", ""},
		})

		records, err := ParseWorkbook(data, domain.TypeStakeholder)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Len(t, records[0].Stakeholders, 1)
		assert.Equal(t, "jane@acme.example", records[0].Stakeholders[0].Email)
	})

	t.Run("header-only workbook parses to nothing", func(t *testing.T) {
		data := buildWorkbook(t, [][]any{fullHeader})

		records, err := ParseWorkbook(data, domain.TypeFull)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("a non-xlsx payload is a BadRequest", func(t *testing.T) {
		_, err := ParseWorkbook([]byte("definitely not a workbook"), domain.TypeFull)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	})
}

func TestCombineStakeholders(t *testing.T) {
	t.Run("zips parallel lists", func(t *testing.T) {
		rows := combineStakeholders(
			"Jane Doe, Raj Patel", "jane@acme.example, raj@acme.example", "Data, Marketing", "Lead, Analyst")
		require.Len(t, rows, 2)
		assert.Equal(t, "Raj Patel", rows[1].Name)
		assert.Equal(t, "Analyst", rows[1].Role)
	})

	t.Run("entries without an email are dropped", func(t *testing.T) {
		rows := combineStakeholders("Jane Doe, Raj Patel", "jane@acme.example", "", "")
		require.Len(t, rows, 1)
		assert.Equal(t, "Jane Doe", rows[0].Name)
	})

	t.Run("emails without names survive", func(t *testing.T) {
		rows := combineStakeholders("", "solo@acme.example", "", "")
		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].Name)
		assert.Equal(t, "solo@acme.example", rows[0].Email)
	})

	t.Run("all empty yields nothing", func(t *testing.T) {
		assert.Empty(t, combineStakeholders("", "", "", ""))
	})
}
