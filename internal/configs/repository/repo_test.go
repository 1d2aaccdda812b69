package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/configs/domain"
)

func setupConfigRepo(t *testing.T) (*ConfigRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewConfigRepository(db), mock, db
}

var configRowColumns = []string{
	"id", "project_id", "version", "is_latest", "config", "change_summary",
	"created_by", "updated_by", "created_at", "updated_at", "is_deleted",
	"name", "cb_email", "ub_email",
}

func configRow(id string, projectID any, version int, isLatest, isDeleted bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(configRowColumns).AddRow(
		id, projectID, version, isLatest, []byte(`{"client":"Acme Foods","client_code":"ACME"}`), nil,
		"user-1", nil, now, now, isDeleted,
		"Retail Data Platform", "user1@example.com", nil,
	)
}

func TestConfigRepository_FindByID(t *testing.T) {
	repo, mock, _ := setupConfigRepo(t)
	ctx := context.Background()

	t.Run("returns a row including deleted ones", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM configs cfg`).
			WithArgs("cfg-1").
			WillReturnRows(configRow("cfg-1", "proj-1", 2, false, true))

		c, err := repo.FindByID(ctx, nil, "cfg-1")
		require.NoError(t, err)
		assert.Equal(t, "cfg-1", c.ID)
		assert.Equal(t, 2, c.Version)
		assert.True(t, c.IsDeleted)
		assert.Equal(t, "Acme Foods", c.Payload.Client)
		require.NotNil(t, c.ProjectName)
		assert.Equal(t, "Retail Data Platform", *c.ProjectName)
	})

	t.Run("missing row is NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM configs cfg`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(ctx, nil, "missing")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepository_FindActiveByID(t *testing.T) {
	repo, mock, _ := setupConfigRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM configs cfg(.+)is_deleted = false`).
		WithArgs("cfg-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveByID(ctx, nil, "cfg-1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, apperr.MessageOf(err), "cfg-1")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepository_ScopeOccupied(t *testing.T) {
	repo, mock, _ := setupConfigRepo(t)
	ctx := context.Background()

	t.Run("global scope uses a null argument", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(nil).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		occupied, err := repo.ScopeOccupied(ctx, nil, nil)
		require.NoError(t, err)
		assert.True(t, occupied)
	})

	t.Run("empty project scope", func(t *testing.T) {
		projectID := "proj-1"
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(projectID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		occupied, err := repo.ScopeOccupied(ctx, nil, &projectID)
		require.NoError(t, err)
		assert.False(t, occupied)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepository_FindPrevious(t *testing.T) {
	repo, mock, _ := setupConfigRepo(t)
	ctx := context.Background()
	projectID := "proj-1"

	t.Run("returns the candidate at the exact version", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM configs cfg`).
			WithArgs(projectID, 2).
			WillReturnRows(configRow("cfg-2", projectID, 2, false, false))

		c, err := repo.FindPrevious(ctx, nil, &projectID, 2)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "cfg-2", c.ID)
	})

	t.Run("no candidate is not an error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM configs cfg`).
			WithArgs(projectID, 1).
			WillReturnError(sql.ErrNoRows)

		c, err := repo.FindPrevious(ctx, nil, &projectID, 1)
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepository_Insert(t *testing.T) {
	ctx := context.Background()
	projectID := "proj-1"

	t.Run("inserts and reads the row back", func(t *testing.T) {
		repo, mock, _ := setupConfigRepo(t)

		mock.ExpectQuery(`INSERT INTO configs`).
			WithArgs(&projectID, 1, sqlmock.AnyArg(), nil, sqlmock.AnyArg(), nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cfg-1"))
		mock.ExpectQuery(`SELECT (.+) FROM configs cfg`).
			WithArgs("cfg-1").
			WillReturnRows(configRow("cfg-1", projectID, 1, true, false))

		created, err := repo.Insert(ctx, nil, InsertConfig{
			ProjectID: &projectID,
			Version:   1,
			Payload:   domain.DefaultPayload(),
			CreatedBy: strPtr("user-1"),
		})
		require.NoError(t, err)
		assert.Equal(t, "cfg-1", created.ID)
		assert.True(t, created.IsLatest)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation becomes a Conflict", func(t *testing.T) {
		repo, mock, _ := setupConfigRepo(t)

		mock.ExpectQuery(`INSERT INTO configs`).
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Insert(ctx, nil, InsertConfig{ProjectID: &projectID, Version: 1})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConfigRepository_MarkDeleted(t *testing.T) {
	repo, mock, _ := setupConfigRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE configs SET is_deleted = true`).
		WithArgs("cfg-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkDeleted(ctx, nil, "cfg-1", "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepository_MarkLatest(t *testing.T) {
	repo, mock, _ := setupConfigRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE configs SET is_latest = true`).
		WithArgs("cfg-1").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.MarkLatest(ctx, nil, "cfg-1")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepository_FindAllPaginated(t *testing.T) {
	ctx := context.Background()

	t.Run("filters and pages", func(t *testing.T) {
		repo, mock, _ := setupConfigRepo(t)
		projectID := "proj-1"
		isLatest := true

		mock.ExpectQuery(`SELECT count\(\*\) FROM configs cfg`).
			WithArgs(projectID, true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT (.+) FROM configs cfg(.+)ORDER BY cfg.created_at DESC`).
			WithArgs(projectID, true, 10, 0).
			WillReturnRows(configRow("cfg-3", projectID, 3, true, false))

		items, total, err := repo.FindAllPaginated(ctx, nil,
			domain.ListFilter{ProjectID: &projectID, IsLatest: &isLatest}, nil, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "cfg-3", items[0].ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("the literal null selects the global scope", func(t *testing.T) {
		repo, mock, _ := setupConfigRepo(t)
		global := "null"

		mock.ExpectQuery(`SELECT count\(\*\) FROM configs cfg WHERE cfg.project_id IS NULL`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT (.+) WHERE cfg.project_id IS NULL`).
			WithArgs(10, 0).
			WillReturnRows(configRow("cfg-g", nil, 1, true, false))

		items, total, err := repo.FindAllPaginated(ctx, nil,
			domain.ListFilter{ProjectID: &global}, nil, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Nil(t, items[0].ProjectID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown sort fields", func(t *testing.T) {
		repo, mock, _ := setupConfigRepo(t)

		mock.ExpectQuery(`SELECT count\(\*\) FROM configs cfg`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		_, _, err := repo.FindAllPaginated(ctx, nil, domain.ListFilter{},
			&domain.Sort{Field: "config", Order: "ASC"}, 1, 10)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sorts by a whitelisted column", func(t *testing.T) {
		repo, mock, _ := setupConfigRepo(t)

		mock.ExpectQuery(`SELECT count\(\*\) FROM configs cfg`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`ORDER BY cfg.version ASC`).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(configRowColumns))

		items, total, err := repo.FindAllPaginated(ctx, nil, domain.ListFilter{},
			&domain.Sort{Field: "version", Order: "asc"}, 1, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func strPtr(s string) *string { return &s }
