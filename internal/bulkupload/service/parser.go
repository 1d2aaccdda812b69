package service

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/domain"
)

// Expected header labels on the first row of the first sheet.
const (
	colClientName  = "Client Name"
	colClientCode  = "Client Code"
	colProjectName = "Project Name"
	colProjectDesc = "Project Description"
	colStakeNames  = "Stakeholder Names"
	colStakeEmails = "Stakeholder Emails"
	colStakeTeams  = "Stakeholder Teams"
	colStakeRoles  = "Stakeholder Roles"
)

// ParseWorkbook reads the first sheet of an XLSX workbook into records for
// the given upload type. Rows missing their required identifying columns
// are skipped rather than failing the whole file.
func ParseWorkbook(data []byte, uploadType domain.UploadType) ([]domain.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindBadRequest, "failed to read the uploaded file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.BadRequest("uploaded workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindBadRequest, "failed to read sheet %q", sheets[0])
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := map[string]int{}
	for i, label := range rows[0] {
		header[strings.TrimSpace(label)] = i
	}
	cell := func(row []string, label string) string {
		idx, ok := header[label]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []domain.Record
	for _, row := range rows[1:] {
		switch uploadType {
		case domain.TypeFull:
			if cell(row, colClientName) == "" || cell(row, colClientCode) == "" || cell(row, colProjectName) == "" {
				continue
			}
			records = append(records, domain.Record{
				ClientName:         cell(row, colClientName),
				ClientCode:         cell(row, colClientCode),
				ProjectName:        cell(row, colProjectName),
				ProjectDescription: cell(row, colProjectDesc),
				Stakeholders: combineStakeholders(
					cell(row, colStakeNames), cell(row, colStakeEmails),
					cell(row, colStakeTeams), cell(row, colStakeRoles)),
			})

		case domain.TypeProject:
			if cell(row, colProjectName) == "" {
				continue
			}
			records = append(records, domain.Record{
				ProjectName:        cell(row, colProjectName),
				ProjectDescription: cell(row, colProjectDesc),
				Stakeholders: combineStakeholders(
					cell(row, colStakeNames), cell(row, colStakeEmails),
					cell(row, colStakeTeams), cell(row, colStakeRoles)),
			})

		case domain.TypeStakeholder:
			if cell(row, colStakeEmails) == "" {
				continue
			}
			records = append(records, domain.Record{
				Stakeholders: []domain.StakeholderRow{{
					Name:  cell(row, colStakeNames),
					Email: cell(row, colStakeEmails),
					Team:  cell(row, colStakeTeams),
					Role:  cell(row, colStakeRoles),
				}},
			})
		}
	}
	return records, nil
}

// combineStakeholders zips comma-separated name/email/team/role cells into
// stakeholder rows. Entries without an email are dropped.
func combineStakeholders(names, emails, teams, roles string) []domain.StakeholderRow {
	nameList := splitList(names)
	emailList := splitList(emails)
	teamList := strings.Split(teams, ",")
	roleList := strings.Split(roles, ",")

	n := len(nameList)
	if len(emailList) > n {
		n = len(emailList)
	}

	var out []domain.StakeholderRow
	for i := 0; i < n; i++ {
		if i >= len(emailList) || emailList[i] == "" {
			continue
		}
		row := domain.StakeholderRow{Email: emailList[i]}
		if i < len(nameList) {
			row.Name = nameList[i]
		}
		if i < len(teamList) {
			row.Team = strings.TrimSpace(teamList[i])
		}
		if i < len(roleList) {
			row.Role = strings.TrimSpace(roleList[i])
		}
		out = append(out, row)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
