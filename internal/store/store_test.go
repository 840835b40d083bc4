package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

func TestUpsertCountry(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	t.Run("creates missing country", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO country (name) VALUES ($1)")).
			WithArgs("Kazakhstan").
			WillReturnRows(pgxmock.NewRows([]string{"id", "country_code", "name", "inserted"}).
				AddRow(int64(7), "", "Kazakhstan", true))

		country, created, err := UpsertCountry(ctx, mock, "Kazakhstan")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, types.Country{ID: 7, Name: "Kazakhstan"}, country)
	})

	t.Run("returns existing country", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO country (name) VALUES ($1)")).
			WithArgs("Kazakhstan").
			WillReturnRows(pgxmock.NewRows([]string{"id", "country_code", "name", "inserted"}).
				AddRow(int64(7), "KZ", "Kazakhstan", false))

		country, created, err := UpsertCountry(ctx, mock, "Kazakhstan")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "KZ", country.CountryCode)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRegion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO region (country_id, name) VALUES ($1, $2)")).
		WithArgs(int64(7), "Almaty City").
		WillReturnRows(pgxmock.NewRows([]string{"id", "inserted"}).AddRow(int64(3), true))

	id, created, err := UpsertRegion(context.Background(), mock, 7, "Almaty City")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.True(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveCountryID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	t.Run("by id", func(t *testing.T) {
		id := int64(2)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM country WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

		got, err := ResolveCountryID(ctx, mock, types.CountryFilter{ID: &id})
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("unknown name", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM country WHERE name = $1")).
			WithArgs("Atlantis").
			WillReturnError(pgx.ErrNoRows)

		_, err := ResolveCountryID(ctx, mock, types.CountryFilter{Name: "Atlantis"})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, "country Atlantis not found", err.Error())
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgErrorClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsUniqueViolation(errors.Join(errors.New("insert"), unique)))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))
}
