package country

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-geo-weather/app/observability/metrics"
	"github.com/FACorreiaa/go-geo-weather/internal/store"
	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

var _ Repository = (*PostgresCountryRepo)(nil)

// Repository defines the contract for country persistence.
type Repository interface {
	GetAll(ctx context.Context) ([]types.Country, error)
	GetByID(ctx context.Context, id int64) (*types.Country, error)
	Create(ctx context.Context, params types.CreateCountryParams) (*types.Country, error)
	Update(ctx context.Context, id int64, params types.UpdateCountryParams) (*types.Country, error)
	// Delete reports false when no country had the given id.
	Delete(ctx context.Context, id int64) (bool, error)
}

type PostgresCountryRepo struct {
	logger  *slog.Logger
	db      store.DB
	metrics *metrics.AppMetrics
}

func NewPostgresCountryRepo(db store.DB, m *metrics.AppMetrics, logger *slog.Logger) *PostgresCountryRepo {
	return &PostgresCountryRepo{
		logger:  logger,
		db:      db,
		metrics: m,
	}
}

func (r *PostgresCountryRepo) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", "country"))
	return otel.Tracer("CountryRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *PostgresCountryRepo) fail(ctx context.Context, span trace.Span, operation string, err error) {
	r.metrics.RecordDBError(ctx, operation)
	span.RecordError(err)
	span.SetStatus(codes.Error, "DB operation failed")
}

func (r *PostgresCountryRepo) GetAll(ctx context.Context) ([]types.Country, error) {
	ctx, span := r.startSpan(ctx, "GetAll")
	defer span.End()

	l := r.logger.With(slog.String("method", "GetAll"))
	l.DebugContext(ctx, "Fetching all countries")

	query := `
        SELECT id, COALESCE(country_code, ''), name
        FROM country
        ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query countries", slog.Any("error", err))
		r.fail(ctx, span, "country.get_all", err)
		return nil, fmt.Errorf("database error fetching countries: %w", err)
	}
	defer rows.Close()

	countries := make([]types.Country, 0)
	for rows.Next() {
		var c types.Country
		if err := rows.Scan(&c.ID, &c.CountryCode, &c.Name); err != nil {
			l.ErrorContext(ctx, "Failed to scan country row", slog.Any("error", err))
			r.fail(ctx, span, "country.get_all", err)
			return nil, fmt.Errorf("database error scanning country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		l.ErrorContext(ctx, "Error iterating country rows", slog.Any("error", err))
		r.fail(ctx, span, "country.get_all", err)
		return nil, fmt.Errorf("database error reading countries: %w", err)
	}

	span.SetStatus(codes.Ok, "Countries fetched")
	return countries, nil
}

func (r *PostgresCountryRepo) GetByID(ctx context.Context, id int64) (*types.Country, error) {
	ctx, span := r.startSpan(ctx, "GetByID", attribute.Int64("country.id", id))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetByID"), slog.Int64("countryID", id))

	query := `SELECT id, COALESCE(country_code, ''), name FROM country WHERE id = $1`

	var c types.Country
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.CountryCode, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Country not found")
			return nil, fmt.Errorf("country with id %d %w", id, types.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to fetch country", slog.Any("error", err))
		r.fail(ctx, span, "country.get_by_id", err)
		return nil, fmt.Errorf("database error fetching country: %w", err)
	}

	span.SetStatus(codes.Ok, "Country fetched")
	return &c, nil
}

func (r *PostgresCountryRepo) Create(ctx context.Context, params types.CreateCountryParams) (*types.Country, error) {
	ctx, span := r.startSpan(ctx, "Create", attribute.String("country.name", params.Name))
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("name", params.Name))
	l.DebugContext(ctx, "Inserting country")

	query := `
        INSERT INTO country (name, country_code) VALUES ($1, $2)
        RETURNING id, COALESCE(country_code, ''), name`

	var c types.Country
	err := r.db.QueryRow(ctx, query, params.Name, params.CountryCode).Scan(&c.ID, &c.CountryCode, &c.Name)
	if err != nil {
		if store.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "Duplicate country")
			return nil, fmt.Errorf("country %s %w", params.Name, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert country", slog.Any("error", err))
		r.fail(ctx, span, "country.create", err)
		return nil, fmt.Errorf("database error creating country: %w", err)
	}

	l.InfoContext(ctx, "Country created", slog.Int64("countryID", c.ID))
	span.SetStatus(codes.Ok, "Country created")
	return &c, nil
}

func (r *PostgresCountryRepo) Update(ctx context.Context, id int64, params types.UpdateCountryParams) (*types.Country, error) {
	ctx, span := r.startSpan(ctx, "Update", attribute.Int64("country.id", id))
	defer span.End()

	l := r.logger.With(slog.String("method", "Update"), slog.Int64("countryID", id))

	query := `
        UPDATE country
        SET name = COALESCE($2, name),
            country_code = COALESCE($3, country_code)
        WHERE id = $1
        RETURNING id, COALESCE(country_code, ''), name`

	var c types.Country
	err := r.db.QueryRow(ctx, query, id, params.Name, params.CountryCode).Scan(&c.ID, &c.CountryCode, &c.Name)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			span.SetStatus(codes.Error, "Country not found")
			return nil, fmt.Errorf("country with id %d %w", id, types.ErrNotFound)
		case store.IsUniqueViolation(err):
			span.SetStatus(codes.Error, "Duplicate country")
			return nil, fmt.Errorf("country %s %w", *params.Name, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to update country", slog.Any("error", err))
		r.fail(ctx, span, "country.update", err)
		return nil, fmt.Errorf("database error updating country: %w", err)
	}

	l.InfoContext(ctx, "Country updated")
	span.SetStatus(codes.Ok, "Country updated")
	return &c, nil
}

func (r *PostgresCountryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := r.startSpan(ctx, "Delete", attribute.Int64("country.id", id))
	defer span.End()

	l := r.logger.With(slog.String("method", "Delete"), slog.Int64("countryID", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM country WHERE id = $1`, id)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete country", slog.Any("error", err))
		r.fail(ctx, span, "country.delete", err)
		return false, fmt.Errorf("database error deleting country: %w", err)
	}

	deleted := tag.RowsAffected() > 0
	l.InfoContext(ctx, "Country delete executed", slog.Bool("deleted", deleted))
	span.SetStatus(codes.Ok, "Country delete executed")
	return deleted, nil
}
