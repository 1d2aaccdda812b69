package domain

// UploadType selects which columns a spreadsheet carries and what gets
// reconciled.
type UploadType string

const (
	// TypeFull rows carry client, project and stakeholder columns.
	TypeFull UploadType = "client-project-stakeholder"
	// TypeProject rows carry project and stakeholder columns; the client
	// is supplied as a request parameter.
	TypeProject UploadType = "project-stakeholder"
	// TypeStakeholder rows carry stakeholder columns only; the project is
	// supplied as a request parameter.
	TypeStakeholder UploadType = "stakeholder"
)

func (t UploadType) Valid() bool {
	switch t {
	case TypeFull, TypeProject, TypeStakeholder:
		return true
	}
	return false
}

// StakeholderRow is one stakeholder parsed out of a spreadsheet cell
// group. Email is required; rows without one are dropped during parsing.
type StakeholderRow struct {
	Name  string
	Email string
	Team  string
	Role  string
}

// Record is one reconcilable spreadsheet row. Client and project fields
// are populated according to the upload type.
type Record struct {
	ClientName         string
	ClientCode         string
	ProjectName        string
	ProjectDescription string
	Stakeholders       []StakeholderRow
}

type Result struct {
	Message          string `json:"message"`
	ProcessedRecords int    `json:"processedRecords"`
	ArchiveKey       string `json:"archiveKey,omitempty"`
}
