package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/domain"
	clientsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/clients/domain"
	projectsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/projects/domain"
	stakeholdersdomain "github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/domain"
)

type fakeClients struct {
	byID    map[string]*clientsdomain.Client
	created []clientsdomain.CreateClient
}

func (f *fakeClients) FindByIDTx(_ context.Context, _ *sql.Tx, id string) (*clientsdomain.Client, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("client with ID %s not found", id)
}

func (f *fakeClients) FindByCodeOrName(_ context.Context, _ *sql.Tx, code, name string) (*clientsdomain.Client, error) {
	for _, c := range f.byID {
		if c.ClientCode == code || c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeClients) CreateTx(_ context.Context, _ *sql.Tx, in clientsdomain.CreateClient, _ string) (*clientsdomain.Client, error) {
	f.created = append(f.created, in)
	c := &clientsdomain.Client{ID: fmt.Sprintf("cl-%d", len(f.byID)+1), Name: in.Name, ClientCode: in.ClientCode}
	f.byID[c.ID] = c
	return c, nil
}

type fakeProjectsStore struct {
	byID    map[string]*projectsdomain.Project
	created []projectsdomain.CreateProject
	links   map[string][]string
}

func (f *fakeProjectsStore) FindByIDTx(_ context.Context, _ *sql.Tx, id string) (*projectsdomain.Project, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("project with ID %s not found", id)
}

func (f *fakeProjectsStore) FindByName(_ context.Context, _ *sql.Tx, name string) (*projectsdomain.Project, error) {
	for _, p := range f.byID {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProjectsStore) CreateTx(_ context.Context, _ *sql.Tx, in projectsdomain.CreateProject, _ string) (*projectsdomain.Project, error) {
	f.created = append(f.created, in)
	p := &projectsdomain.Project{
		ID: fmt.Sprintf("proj-%d", len(f.byID)+1), Name: in.Name,
		Description: in.Description, ClientID: in.ClientID,
	}
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeProjectsStore) LinkStakeholdersTx(_ context.Context, _ *sql.Tx, projectID string, ids []string) error {
	f.links[projectID] = append(f.links[projectID], ids...)
	return nil
}

type fakeStakeholders struct {
	byEmail   map[string]*stakeholdersdomain.Stakeholder
	created   []stakeholdersdomain.CreateStakeholder
	refreshed []string
}

func (f *fakeStakeholders) FindByEmailOrPhone(_ context.Context, _ *sql.Tx, email, _ *string) (*stakeholdersdomain.Stakeholder, error) {
	if email == nil {
		return nil, nil
	}
	if s, ok := f.byEmail[*email]; ok {
		return s, nil
	}
	return nil, nil
}

func (f *fakeStakeholders) CreateTx(_ context.Context, _ *sql.Tx, in stakeholdersdomain.CreateStakeholder, _ string) (*stakeholdersdomain.Stakeholder, error) {
	f.created = append(f.created, in)
	s := &stakeholdersdomain.Stakeholder{
		ID: fmt.Sprintf("st-%d", len(f.byEmail)+1), Name: in.Name,
		Email: in.Email, Team: in.Team, Role: in.Role, ClientID: in.ClientID,
	}
	f.byEmail[*in.Email] = s
	return s, nil
}

func (f *fakeStakeholders) RefreshFieldsTx(_ context.Context, _ *sql.Tx, id, _ string, _, _ *string, _ string) (*stakeholdersdomain.Stakeholder, error) {
	for _, s := range f.byEmail {
		if s.ID == id {
			f.refreshed = append(f.refreshed, id)
			return s, nil
		}
	}
	return nil, apperr.NotFound("stakeholder with ID %s not found", id)
}

type fakeArchive struct {
	key string
	err error
}

func (f *fakeArchive) Store(_ context.Context, _ string, _ []byte) (string, error) {
	return f.key, f.err
}

type uploadFixture struct {
	svc          *BulkUploadService
	mock         sqlmock.Sqlmock
	clients      *fakeClients
	projects     *fakeProjectsStore
	stakeholders *fakeStakeholders
	archive      *fakeArchive
}

func setupUpload(t *testing.T) *uploadFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &uploadFixture{
		mock:         mock,
		clients:      &fakeClients{byID: map[string]*clientsdomain.Client{}},
		projects:     &fakeProjectsStore{byID: map[string]*projectsdomain.Project{}, links: map[string][]string{}},
		stakeholders: &fakeStakeholders{byEmail: map[string]*stakeholdersdomain.Stakeholder{}},
		archive:      &fakeArchive{key: "bulk-uploads/2026/08/31/abc-upload.xlsx"},
	}
	f.svc = NewBulkUploadService(db, f.clients, f.projects, f.stakeholders, f.archive, zap.NewNop().Sugar())
	return f
}

func fullWorkbook(t *testing.T) []byte {
	t.Helper()
	return buildWorkbook(t, [][]any{
		fullHeader,
		{"Acme Foods", "ACME", "Retail Data Platform", "Unify retail data",
			"Jane Doe, Raj Patel", "jane@acme.example, raj@acme.example", "Data, Marketing", "Lead, Analyst"},
	})
}

var uploadActor = auth.Claims{UserID: "user-1", Email: "user1@example.com"}

func TestBulkUploadService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("full upload creates client, project and stakeholders", func(t *testing.T) {
		f := setupUpload(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		result, err := f.svc.Process(ctx, uploadActor, "upload.xlsx", fullWorkbook(t), domain.TypeFull, "", "")
		require.NoError(t, err)

		assert.Equal(t, 1, result.ProcessedRecords)
		assert.Equal(t, "Bulk upload completed successfully.", result.Message)
		assert.Equal(t, f.archive.key, result.ArchiveKey)

		require.Len(t, f.clients.created, 1)
		assert.Equal(t, "ACME", f.clients.created[0].ClientCode)
		require.Len(t, f.projects.created, 1)
		assert.Equal(t, "Retail Data Platform", f.projects.created[0].Name)
		require.Len(t, f.stakeholders.created, 2)
		assert.Len(t, f.projects.links["proj-1"], 2)

		require.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("existing entities are reused, not duplicated", func(t *testing.T) {
		f := setupUpload(t)
		f.clients.byID["cl-1"] = &clientsdomain.Client{ID: "cl-1", Name: "Acme Foods", ClientCode: "ACME"}
		f.projects.byID["proj-1"] = &projectsdomain.Project{ID: "proj-1", Name: "Retail Data Platform", ClientID: "cl-1"}
		email := "jane@acme.example"
		f.stakeholders.byEmail[email] = &stakeholdersdomain.Stakeholder{ID: "st-1", Name: "Jane Doe", Email: &email, ClientID: "cl-1"}

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		_, err := f.svc.Process(ctx, uploadActor, "upload.xlsx", fullWorkbook(t), domain.TypeFull, "", "")
		require.NoError(t, err)

		assert.Empty(t, f.clients.created)
		assert.Empty(t, f.projects.created)
		// Jane is refreshed in place, only Raj is new.
		require.Len(t, f.stakeholders.created, 1)
		assert.Equal(t, "raj@acme.example", *f.stakeholders.created[0].Email)
		assert.Equal(t, []string{"st-1"}, f.stakeholders.refreshed)
	})

	t.Run("a deleted project rolls the upload back", func(t *testing.T) {
		f := setupUpload(t)
		f.clients.byID["cl-1"] = &clientsdomain.Client{ID: "cl-1", Name: "Acme Foods", ClientCode: "ACME"}
		f.projects.byID["proj-1"] = &projectsdomain.Project{ID: "proj-1", Name: "Retail Data Platform", ClientID: "cl-1", IsDeleted: true}

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.svc.Process(ctx, uploadActor, "upload.xlsx", fullWorkbook(t), domain.TypeFull, "", "")
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		require.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("a project owned by another client is a conflict", func(t *testing.T) {
		f := setupUpload(t)
		f.clients.byID["cl-1"] = &clientsdomain.Client{ID: "cl-1", Name: "Acme Foods", ClientCode: "ACME"}
		f.projects.byID["proj-9"] = &projectsdomain.Project{ID: "proj-9", Name: "Retail Data Platform", ClientID: "cl-other"}

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.svc.Process(ctx, uploadActor, "upload.xlsx", fullWorkbook(t), domain.TypeFull, "", "")
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("project upload requires a clientId", func(t *testing.T) {
		f := setupUpload(t)
		data := buildWorkbook(t, [][]any{
			fullHeader,
			{"", "", "Campaign Measurement", "", "Mia Chen", "mia@nwm.example", "", ""},
		})

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.svc.Process(ctx, uploadActor, "upload.xlsx", data, domain.TypeProject, "", "")
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	})

	t.Run("stakeholder upload links to the target project", func(t *testing.T) {
		f := setupUpload(t)
		f.projects.byID["proj-1"] = &projectsdomain.Project{ID: "proj-1", Name: "Retail Data Platform", ClientID: "cl-1"}
		data := buildWorkbook(t, [][]any{
			fullHeader,
			{"", "", "", "", "Jane Doe", "jane@acme.example", "Data", "Lead"},
		})

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		result, err := f.svc.Process(ctx, uploadActor, "upload.xlsx", data, domain.TypeStakeholder, "", "proj-1")
		require.NoError(t, err)
		assert.Equal(t, 1, result.ProcessedRecords)

		require.Len(t, f.stakeholders.created, 1)
		assert.Equal(t, "cl-1", f.stakeholders.created[0].ClientID)
		assert.Len(t, f.projects.links["proj-1"], 1)
	})

	t.Run("an empty workbook is a no-op", func(t *testing.T) {
		f := setupUpload(t)
		data := buildWorkbook(t, [][]any{fullHeader})

		result, err := f.svc.Process(ctx, uploadActor, "upload.xlsx", data, domain.TypeFull, "", "")
		require.NoError(t, err)
		assert.Equal(t, "No valid data found in the file.", result.Message)
		assert.Zero(t, result.ProcessedRecords)

		require.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("an unknown upload type is rejected before parsing", func(t *testing.T) {
		f := setupUpload(t)

		_, err := f.svc.Process(ctx, uploadActor, "upload.xlsx", nil, domain.UploadType("bogus"), "", "")
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	})

	t.Run("archive failure does not fail the upload", func(t *testing.T) {
		f := setupUpload(t)
		f.archive.err = errors.New("bucket unavailable")

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		result, err := f.svc.Process(ctx, uploadActor, "upload.xlsx", fullWorkbook(t), domain.TypeFull, "", "")
		require.NoError(t, err)
		assert.Empty(t, result.ArchiveKey)
	})
}
