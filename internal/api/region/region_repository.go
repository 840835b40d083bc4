package region

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

var _ Repository = (*PostgresRegionRepo)(nil)

type Repository interface {
	// GetAll lists every region, or only those of the filtered country.
	GetAll(ctx context.Context, filter *types.CountryFilter) ([]types.Region, error)
	GetByID(ctx context.Context, id int64) (*types.Region, error)
	Create(ctx context.Context, params types.CreateRegionParams) (*types.Region, error)
	// CreateSimple creates the named country when it is missing, then the region.
	CreateSimple(ctx context.Context, params types.CreateRegionSimpleParams) (*types.Region, error)
	Update(ctx context.Context, id int64, params types.UpdateRegionParams) (*types.Region, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PostgresRegionRepo struct {
	logger  *slog.Logger
	db      store.DB
	metrics *metrics.AppMetrics
}

func NewPostgresRegionRepo(db store.DB, m *metrics.AppMetrics, logger *slog.Logger) *PostgresRegionRepo {
	return &PostgresRegionRepo{
		logger:  logger,
		db:      db,
		metrics: m,
	}
}

const selectRegion = `
        SELECT r.id, r.name, r.country_id, c.name
        FROM region r
        JOIN country c ON c.id = r.country_id`

func scanRegion(row pgx.Row) (*types.Region, error) {
	var reg types.Region
	if err := row.Scan(&reg.ID, &reg.Name, &reg.CountryID, &reg.CountryName); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *PostgresRegionRepo) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", "region"))
	return otel.Tracer("RegionRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *PostgresRegionRepo) fail(ctx context.Context, span trace.Span, operation string, err error) {
	r.metrics.RecordDBError(ctx, operation)
	span.RecordError(err)
	span.SetStatus(codes.Error, "DB operation failed")
}

func (r *PostgresRegionRepo) GetAll(ctx context.Context, filter *types.CountryFilter) ([]types.Region, error) {
	ctx, span := r.startSpan(ctx, "GetAll")
	defer span.End()

	l := r.logger.With(slog.String("method", "GetAll"))

	var (
		rows pgx.Rows
		err  error
	)
	if filter == nil {
		rows, err = r.db.Query(ctx, selectRegion+` ORDER BY r.id`)
	} else {
		countryID, resolveErr := store.ResolveCountryID(ctx, r.db, *filter)
		if resolveErr != nil {
			span.RecordError(resolveErr)
			span.SetStatus(codes.Error, "Country lookup failed")
			return nil, resolveErr
		}
		span.SetAttributes(attribute.Int64("country.id", countryID))
		rows, err = r.db.Query(ctx, selectRegion+` WHERE r.country_id = $1 ORDER BY r.id`, countryID)
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to query regions", slog.Any("error", err))
		r.fail(ctx, span, "region.get_all", err)
		return nil, fmt.Errorf("database error fetching regions: %w", err)
	}
	defer rows.Close()

	regions := make([]types.Region, 0)
	for rows.Next() {
		reg, err := scanRegion(rows)
		if err != nil {
			l.ErrorContext(ctx, "Failed to scan region row", slog.Any("error", err))
			r.fail(ctx, span, "region.get_all", err)
			return nil, fmt.Errorf("database error scanning region: %w", err)
		}
		regions = append(regions, *reg)
	}
	if err := rows.Err(); err != nil {
		r.fail(ctx, span, "region.get_all", err)
		return nil, fmt.Errorf("database error reading regions: %w", err)
	}

	l.DebugContext(ctx, "Regions fetched", slog.Int("count", len(regions)))
	span.SetStatus(codes.Ok, "Regions fetched")
	return regions, nil
}

func (r *PostgresRegionRepo) GetByID(ctx context.Context, id int64) (*types.Region, error) {
	ctx, span := r.startSpan(ctx, "GetByID", attribute.Int64("region.id", id))
	defer span.End()

	reg, err := scanRegion(r.db.QueryRow(ctx, selectRegion+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Region not found")
			return nil, fmt.Errorf("region with id %d %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch region", slog.String("method", "GetByID"), slog.Any("error", err))
		r.fail(ctx, span, "region.get_by_id", err)
		return nil, fmt.Errorf("database error fetching region: %w", err)
	}

	span.SetStatus(codes.Ok, "Region fetched")
	return reg, nil
}

func (r *PostgresRegionRepo) Create(ctx context.Context, params types.CreateRegionParams) (*types.Region, error) {
	ctx, span := r.startSpan(ctx, "Create",
		attribute.String("region.name", params.Name),
		attribute.Int64("country.id", params.CountryID),
	)
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("name", params.Name), slog.Int64("countryID", params.CountryID))

	query := `
        WITH ins AS (
            INSERT INTO region (country_id, name) VALUES ($1, $2)
            RETURNING id, name, country_id
        )
        SELECT ins.id, ins.name, ins.country_id, c.name
        FROM ins
        JOIN country c ON c.id = ins.country_id`

	reg, err := scanRegion(r.db.QueryRow(ctx, query, params.CountryID, params.Name))
	if err != nil {
		switch {
		case store.IsForeignKeyViolation(err):
			span.SetStatus(codes.Error, "Country not found")
			return nil, fmt.Errorf("country with id %d %w", params.CountryID, types.ErrNotFound)
		case store.IsUniqueViolation(err):
			span.SetStatus(codes.Error, "Duplicate region")
			return nil, fmt.Errorf("region %s in country with id %d %w", params.Name, params.CountryID, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert region", slog.Any("error", err))
		r.fail(ctx, span, "region.create", err)
		return nil, fmt.Errorf("database error creating region: %w", err)
	}

	l.InfoContext(ctx, "Region created", slog.Int64("regionID", reg.ID))
	span.SetStatus(codes.Ok, "Region created")
	return reg, nil
}

func (r *PostgresRegionRepo) CreateSimple(ctx context.Context, params types.CreateRegionSimpleParams) (*types.Region, error) {
	ctx, span := r.startSpan(ctx, "CreateSimple",
		attribute.String("region.name", params.RegionName),
		attribute.String("country.name", params.CountryName),
	)
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateSimple"), slog.String("region", params.RegionName), slog.String("country", params.CountryName))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.fail(ctx, span, "region.create_simple", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	country, countryCreated, err := store.UpsertCountry(ctx, tx, params.CountryName)
	if err != nil {
		l.ErrorContext(ctx, "Failed to upsert country", slog.Any("error", err))
		r.fail(ctx, span, "region.create_simple", err)
		return nil, err
	}

	var reg types.Region
	err = tx.QueryRow(ctx, `INSERT INTO region (country_id, name) VALUES ($1, $2) RETURNING id`, country.ID, params.RegionName).Scan(&reg.ID)
	if err != nil {
		if store.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "Duplicate region")
			return nil, fmt.Errorf("region %s in country %s %w", params.RegionName, country.Name, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert region", slog.Any("error", err))
		r.fail(ctx, span, "region.create_simple", err)
		return nil, fmt.Errorf("database error creating region: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.fail(ctx, span, "region.create_simple", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	reg.Name = params.RegionName
	reg.CountryID = country.ID
	reg.CountryName = country.Name

	l.InfoContext(ctx, "Region created", slog.Int64("regionID", reg.ID), slog.Bool("countryCreated", countryCreated))
	span.SetStatus(codes.Ok, "Region created")
	return &reg, nil
}

// Update renames a region and/or moves it to another existing country.
// The target country is looked up by name and never created.
func (r *PostgresRegionRepo) Update(ctx context.Context, id int64, params types.UpdateRegionParams) (*types.Region, error) {
	ctx, span := r.startSpan(ctx, "Update", attribute.Int64("region.id", id))
	defer span.End()

	l := r.logger.With(slog.String("method", "Update"), slog.Int64("regionID", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.fail(ctx, span, "region.update", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanRegion(tx.QueryRow(ctx, selectRegion+` WHERE r.id = $1 FOR UPDATE OF r`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Region not found")
			return nil, fmt.Errorf("region with id %d %w", id, types.ErrNotFound)
		}
		r.fail(ctx, span, "region.update", err)
		return nil, fmt.Errorf("database error fetching region: %w", err)
	}

	updated := *current
	if params.RegionName != nil {
		updated.Name = *params.RegionName
	}
	if params.CountryName != nil {
		countryID, err := store.ResolveCountryID(ctx, tx, types.CountryFilter{Name: *params.CountryName})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Country lookup failed")
			return nil, err
		}
		updated.CountryID = countryID
		updated.CountryName = *params.CountryName
	}

	_, err = tx.Exec(ctx, `UPDATE region SET name = $2, country_id = $3 WHERE id = $1`, id, updated.Name, updated.CountryID)
	if err != nil {
		if store.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "Duplicate region")
			return nil, fmt.Errorf("region %s in country %s %w", updated.Name, updated.CountryName, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to update region", slog.Any("error", err))
		r.fail(ctx, span, "region.update", err)
		return nil, fmt.Errorf("database error updating region: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.fail(ctx, span, "region.update", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	l.InfoContext(ctx, "Region updated")
	span.SetStatus(codes.Ok, "Region updated")
	return &updated, nil
}

func (r *PostgresRegionRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := r.startSpan(ctx, "Delete", attribute.Int64("region.id", id))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM region WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete region", slog.String("method", "Delete"), slog.Any("error", err))
		r.fail(ctx, span, "region.delete", err)
		return false, fmt.Errorf("database error deleting region: %w", err)
	}

	span.SetStatus(codes.Ok, "Region delete executed")
	return tag.RowsAffected() > 0, nil
}
