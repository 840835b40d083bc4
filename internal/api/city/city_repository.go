package city

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

var _ CityRepository = (*PostgresCityRepository)(nil)

type CityRepository interface {
	// GetAll lists all cities, or those whose region belongs to the filtered
	// country. An unknown country yields an empty list.
	GetAll(ctx context.Context, filter *types.CountryFilter) ([]types.City, error)
	GetByID(ctx context.Context, id int64) (*types.City, error)
	Create(ctx context.Context, params types.CreateCityParams) (*types.City, error)
	// CreateSimple upserts the country and region by name and inserts the city
	// in a single transaction.
	CreateSimple(ctx context.Context, params types.CreateCitySimpleParams) (*types.City, error)
	Update(ctx context.Context, id int64, params types.UpdateCityParams) (*types.City, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PostgresCityRepository struct {
	logger  *slog.Logger
	db      store.DB
	metrics *metrics.AppMetrics
}

func NewCityRepository(db store.DB, m *metrics.AppMetrics, logger *slog.Logger) *PostgresCityRepository {
	return &PostgresCityRepository{
		logger:  logger,
		db:      db,
		metrics: m,
	}
}

const selectCity = `
        SELECT ci.id, ci.name, r.id, r.name, c.id, c.name
        FROM city ci
        JOIN region r ON r.id = ci.region_id
        JOIN country c ON c.id = r.country_id`

func scanCity(row pgx.Row) (*types.City, error) {
	var city types.City
	err := row.Scan(&city.ID, &city.Name, &city.RegionID, &city.RegionName, &city.CountryID, &city.CountryName)
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *PostgresCityRepository) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", "city"))
	return otel.Tracer("CityRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *PostgresCityRepository) fail(ctx context.Context, span trace.Span, operation string, err error) {
	r.metrics.RecordDBError(ctx, operation)
	span.RecordError(err)
	span.SetStatus(codes.Error, "DB operation failed")
}

func (r *PostgresCityRepository) GetAll(ctx context.Context, filter *types.CountryFilter) ([]types.City, error) {
	ctx, span := r.startSpan(ctx, "GetAll")
	defer span.End()

	l := r.logger.With(slog.String("method", "GetAll"))

	var (
		rows pgx.Rows
		err  error
	)
	switch {
	case filter == nil:
		rows, err = r.db.Query(ctx, selectCity+` ORDER BY ci.id`)
	case filter.ID != nil:
		rows, err = r.db.Query(ctx, selectCity+` WHERE c.id = $1 ORDER BY ci.id`, *filter.ID)
	default:
		rows, err = r.db.Query(ctx, selectCity+` WHERE c.name = $1 ORDER BY ci.id`, filter.Name)
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to query cities", slog.Any("error", err))
		r.fail(ctx, span, "city.get_all", err)
		return nil, fmt.Errorf("database error fetching cities: %w", err)
	}
	defer rows.Close()

	cities := make([]types.City, 0)
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			l.ErrorContext(ctx, "Failed to scan city row", slog.Any("error", err))
			r.fail(ctx, span, "city.get_all", err)
			return nil, fmt.Errorf("database error scanning city: %w", err)
		}
		cities = append(cities, *city)
	}
	if err := rows.Err(); err != nil {
		r.fail(ctx, span, "city.get_all", err)
		return nil, fmt.Errorf("database error reading cities: %w", err)
	}

	l.DebugContext(ctx, "Cities fetched", slog.Int("count", len(cities)))
	span.SetStatus(codes.Ok, "Cities fetched")
	return cities, nil
}

func (r *PostgresCityRepository) GetByID(ctx context.Context, id int64) (*types.City, error) {
	ctx, span := r.startSpan(ctx, "GetByID", attribute.Int64("city.id", id))
	defer span.End()

	city, err := scanCity(r.db.QueryRow(ctx, selectCity+` WHERE ci.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "City not found")
			return nil, fmt.Errorf("city with id %d %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch city", slog.String("method", "GetByID"), slog.Any("error", err))
		r.fail(ctx, span, "city.get_by_id", err)
		return nil, fmt.Errorf("database error fetching city: %w", err)
	}

	span.SetStatus(codes.Ok, "City fetched")
	return city, nil
}

func (r *PostgresCityRepository) Create(ctx context.Context, params types.CreateCityParams) (*types.City, error) {
	ctx, span := r.startSpan(ctx, "Create",
		attribute.String("city.name", params.Name),
		attribute.Int64("region.id", params.RegionID),
	)
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("name", params.Name), slog.Int64("regionID", params.RegionID))

	query := `
        WITH ins AS (
            INSERT INTO city (region_id, name) VALUES ($1, $2)
            RETURNING id, name, region_id
        )
        SELECT ins.id, ins.name, r.id, r.name, c.id, c.name
        FROM ins
        JOIN region r ON r.id = ins.region_id
        JOIN country c ON c.id = r.country_id`

	city, err := scanCity(r.db.QueryRow(ctx, query, params.RegionID, params.Name))
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			span.SetStatus(codes.Error, "Region not found")
			return nil, fmt.Errorf("region with id %d %w", params.RegionID, types.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to insert city", slog.Any("error", err))
		r.fail(ctx, span, "city.create", err)
		return nil, fmt.Errorf("database error creating city: %w", err)
	}

	l.InfoContext(ctx, "City created", slog.Int64("cityID", city.ID))
	span.SetStatus(codes.Ok, "City created")
	return city, nil
}

func (r *PostgresCityRepository) CreateSimple(ctx context.Context, params types.CreateCitySimpleParams) (*types.City, error) {
	ctx, span := r.startSpan(ctx, "CreateSimple",
		attribute.String("city.name", params.CityName),
		attribute.String("region.name", params.RegionName),
		attribute.String("country.name", params.CountryName),
	)
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateSimple"), slog.String("city", params.CityName))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.fail(ctx, span, "city.create_simple", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	country, countryCreated, err := store.UpsertCountry(ctx, tx, params.CountryName)
	if err != nil {
		l.ErrorContext(ctx, "Failed to upsert country", slog.Any("error", err))
		r.fail(ctx, span, "city.create_simple", err)
		return nil, err
	}

	regionID, regionCreated, err := store.UpsertRegion(ctx, tx, country.ID, params.RegionName)
	if err != nil {
		l.ErrorContext(ctx, "Failed to upsert region", slog.Any("error", err))
		r.fail(ctx, span, "city.create_simple", err)
		return nil, err
	}

	city := types.City{
		Name:        params.CityName,
		RegionID:    regionID,
		RegionName:  params.RegionName,
		CountryID:   country.ID,
		CountryName: country.Name,
	}
	err = tx.QueryRow(ctx, `INSERT INTO city (region_id, name) VALUES ($1, $2) RETURNING id`, regionID, params.CityName).Scan(&city.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert city", slog.Any("error", err))
		r.fail(ctx, span, "city.create_simple", err)
		return nil, fmt.Errorf("database error creating city: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.fail(ctx, span, "city.create_simple", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	l.InfoContext(ctx, "City created",
		slog.Int64("cityID", city.ID),
		slog.Bool("countryCreated", countryCreated),
		slog.Bool("regionCreated", regionCreated),
	)
	span.SetStatus(codes.Ok, "City created")
	return &city, nil
}

// Update renames the city and/or moves it to another region. The target
// region is looked up by name inside the named country, or inside the city's
// current country when no country is given. Neither is ever created.
func (r *PostgresCityRepository) Update(ctx context.Context, id int64, params types.UpdateCityParams) (*types.City, error) {
	ctx, span := r.startSpan(ctx, "Update", attribute.Int64("city.id", id))
	defer span.End()

	l := r.logger.With(slog.String("method", "Update"), slog.Int64("cityID", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.fail(ctx, span, "city.update", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanCity(tx.QueryRow(ctx, selectCity+` WHERE ci.id = $1 FOR UPDATE OF ci`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "City not found")
			return nil, fmt.Errorf("city with id %d %w", id, types.ErrNotFound)
		}
		r.fail(ctx, span, "city.update", err)
		return nil, fmt.Errorf("database error fetching city: %w", err)
	}

	updated := *current
	if params.CityName != nil {
		updated.Name = *params.CityName
	}

	if params.RegionName != nil || params.CountryName != nil {
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
		if params.RegionName != nil {
			updated.RegionName = *params.RegionName
		}

		err = tx.QueryRow(ctx, `SELECT id FROM region WHERE country_id = $1 AND name = $2`,
			updated.CountryID, updated.RegionName).Scan(&updated.RegionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				span.SetStatus(codes.Error, "Region not found")
				return nil, fmt.Errorf("region %s in country %s %w", updated.RegionName, updated.CountryName, types.ErrNotFound)
			}
			r.fail(ctx, span, "city.update", err)
			return nil, fmt.Errorf("database error resolving region: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `UPDATE city SET name = $2, region_id = $3 WHERE id = $1`, id, updated.Name, updated.RegionID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update city", slog.Any("error", err))
		r.fail(ctx, span, "city.update", err)
		return nil, fmt.Errorf("database error updating city: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.fail(ctx, span, "city.update", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	l.InfoContext(ctx, "City updated", slog.Int64("regionID", updated.RegionID))
	span.SetStatus(codes.Ok, "City updated")
	return &updated, nil
}

func (r *PostgresCityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := r.startSpan(ctx, "Delete", attribute.Int64("city.id", id))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM city WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete city", slog.String("method", "Delete"), slog.Any("error", err))
		r.fail(ctx, span, "city.delete", err)
		return false, fmt.Errorf("database error deleting city: %w", err)
	}

	span.SetStatus(codes.Ok, "City delete executed")
	return tag.RowsAffected() > 0, nil
}
