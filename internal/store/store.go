// Package store holds the pieces of SQL shared by the hierarchy repositories:
// the pool abstraction, find-or-create upserts and Postgres error classification.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DB is satisfied by *pgxpool.Pool and by pgxmock pools.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Querier is the subset of DB that is also implemented by pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// UpsertCountry returns the country with the given name, creating it when it
// does not exist. created reports whether a new row was inserted.
func UpsertCountry(ctx context.Context, q Querier, name string) (country types.Country, created bool, err error) {
	query := `
        INSERT INTO country (name) VALUES ($1)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, COALESCE(country_code, ''), name, (xmax = 0)`

	err = q.QueryRow(ctx, query, name).Scan(&country.ID, &country.CountryCode, &country.Name, &created)
	if err != nil {
		return types.Country{}, false, fmt.Errorf("upsert country %q: %w", name, err)
	}
	return country, created, nil
}

// UpsertRegion returns the region with the given name inside countryID,
// creating it when it does not exist.
func UpsertRegion(ctx context.Context, q Querier, countryID int64, name string) (id int64, created bool, err error) {
	query := `
        INSERT INTO region (country_id, name) VALUES ($1, $2)
        ON CONFLICT (country_id, name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, (xmax = 0)`

	if err = q.QueryRow(ctx, query, countryID, name).Scan(&id, &created); err != nil {
		return 0, false, fmt.Errorf("upsert region %q: %w", name, err)
	}
	return id, created, nil
}

// ResolveCountryID looks a country up by id or by name.
func ResolveCountryID(ctx context.Context, q Querier, filter types.CountryFilter) (int64, error) {
	var (
		id    int64
		err   error
		label string
	)
	if filter.ID != nil {
		label = fmt.Sprintf("country with id %d", *filter.ID)
		err = q.QueryRow(ctx, `SELECT id FROM country WHERE id = $1`, *filter.ID).Scan(&id)
	} else {
		label = fmt.Sprintf("country %s", filter.Name)
		err = q.QueryRow(ctx, `SELECT id FROM country WHERE name = $1`, filter.Name).Scan(&id)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s %w", label, types.ErrNotFound)
		}
		return 0, fmt.Errorf("database error resolving %s: %w", label, err)
	}
	return id, nil
}
