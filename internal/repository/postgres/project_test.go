package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
)

// anyArgs returns n pgxmock.AnyArg matchers, for expectations that do not
// care about the individual query arguments.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// newMockRepo builds a project repository backed by a pgxmock pool with the
// test table prefix.
func newMockRepo(t *testing.T) (repositories.ProjectRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := NewProjectRepository(&RepositoryConfig{
		Pool:   mock,
		Tables: NewTableNames("test_"),
	})
	return repo, mock
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	now := time.Now().UTC()
	project := &models.Project{
		Name:   "Avionics",
		Status: models.ProjectDraft,
	}

	mock.ExpectQuery(`INSERT INTO test_projects`).
		WithArgs(anyArgs(12)...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "version"}).
			AddRow(id, &now, &now, int64(1)))

	err := repo.Create(context.Background(), project)
	require.NoError(t, err)
	assert.Equal(t, id, project.ID)
	assert.Equal(t, &now, project.CreatedAt)
	assert.Equal(t, int64(1), project.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Create_DuplicateName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO test_projects`).
		WithArgs(anyArgs(12)...).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.Project{Name: "Avionics"})
	require.Error(t, err)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "project", conflict.ResourceType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, status`)).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Update_AdvancesVersion(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	now := time.Now().UTC()
	project := &models.Project{
		Base:   models.Base{ID: id, Version: 3},
		Name:   "Avionics",
		Status: models.ProjectActive,
	}

	mock.ExpectQuery(`UPDATE test_projects`).
		WithArgs(anyArgs(12)...).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at", "version"}).
			AddRow(&now, int64(4)))

	err := repo.Update(context.Background(), project)
	require.NoError(t, err)
	assert.Equal(t, int64(4), project.Version)
	assert.Equal(t, &now, project.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Update_VersionConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	project := &models.Project{
		Base: models.Base{ID: id, Version: 3},
		Name: "Avionics",
	}

	// CAS update touches zero rows, then the follow-up version probe finds
	// the row at a later version.
	mock.ExpectQuery(`UPDATE test_projects`).
		WithArgs(anyArgs(12)...).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version FROM test_projects WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(5)))

	err := repo.Update(context.Background(), project)
	require.Error(t, err)

	var conflict *domain.VersionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(3), conflict.ExpectedVersion)
	assert.Equal(t, int64(5), conflict.StoredVersion)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Update_RowGone(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	project := &models.Project{
		Base: models.Base{ID: id, Version: 3},
		Name: "Avionics",
	}

	mock.ExpectQuery(`UPDATE test_projects`).
		WithArgs(anyArgs(12)...).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version FROM test_projects WHERE id = $1`)).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	err := repo.Update(context.Background(), project)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM test_projects WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM test_projects WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), id)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
