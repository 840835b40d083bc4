package country

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

func newRepoWithMock(t *testing.T) (*PostgresCountryRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresCountryRepo(mock, nil, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func TestPostgresCountryRepo_GetAll(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM country")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "country_code", "name"}).
			AddRow(int64(1), "KZ", "Kazakhstan").
			AddRow(int64(2), "", "India"))

	countries, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.Country{
		{ID: 1, CountryCode: "KZ", Name: "Kazakhstan"},
		{ID: 2, Name: "India"},
	}, countries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCountryRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM country WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, "country with id 99 not found", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCountryRepo_Create(t *testing.T) {
	code := "KZ"
	params := types.CreateCountryParams{Name: "Kazakhstan", CountryCode: &code}

	t.Run("inserts", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO country (name, country_code)")).
			WithArgs("Kazakhstan", &code).
			WillReturnRows(pgxmock.NewRows([]string{"id", "country_code", "name"}).AddRow(int64(5), "KZ", "Kazakhstan"))

		c, err := repo.Create(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, int64(5), c.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO country (name, country_code)")).
			WithArgs("Kazakhstan", &code).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "country_name_key"})

		_, err := repo.Create(context.Background(), params)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCountryRepo_Update(t *testing.T) {
	name := "Qazaqstan"
	params := types.UpdateCountryParams{Name: &name}

	t.Run("partial update", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE country")).
			WithArgs(int64(1), &name, (*string)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "country_code", "name"}).AddRow(int64(1), "KZ", name))

		c, err := repo.Update(context.Background(), 1, params)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name)
		assert.Equal(t, "KZ", c.CountryCode)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing country", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE country")).
			WithArgs(int64(7), &name, (*string)(nil)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Update(context.Background(), 7, params)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("rename onto existing name", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE country")).
			WithArgs(int64(1), &name, (*string)(nil)).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Update(context.Background(), 1, params)
		assert.ErrorIs(t, err, types.ErrConflict)
	})
}

func TestPostgresCountryRepo_Delete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM country WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM country WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := repo.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, mock.ExpectationsWereMet())
}
