package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

// The provider serves at most 14 forecast days.
const (
	MinForecastDays = 1
	MaxForecastDays = 14
)

// Provider is the external weather API. *weatherapi.Client implements it.
type Provider interface {
	Search(ctx context.Context, query string) ([]types.Location, error)
	Current(ctx context.Context, locationID int64) (json.RawMessage, error)
	Forecast(ctx context.Context, locationID int64, days int) (json.RawMessage, error)
}

// CityLookup loads an internal city with its region and country names.
type CityLookup interface {
	GetByID(ctx context.Context, id int64) (*types.City, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	ResolveLocationID(ctx context.Context, city types.City) (int64, error)
	CurrentByCityID(ctx context.Context, cityID int64) (json.RawMessage, error)
	CurrentBySearch(ctx context.Context, params types.WeatherSearchParams) ([]json.RawMessage, error)
	ForecastByCityID(ctx context.Context, cityID int64, days int) (json.RawMessage, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	cities   CityLookup
	provider Provider
}

func NewWeatherService(cities CityLookup, provider Provider, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		cities:   cities,
		provider: provider,
	}
}

// ResolveLocationID searches the provider by the bare city name and picks a
// location id. With several candidates the first one whose country and region
// both equal the city's wins; without such a match the provider's first
// candidate is used.
func (s *ServiceImpl) ResolveLocationID(ctx context.Context, city types.City) (int64, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "ResolveLocationID", trace.WithAttributes(
		attribute.String("city.name", city.Name),
		attribute.String("region.name", city.RegionName),
		attribute.String("country.name", city.CountryName),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ResolveLocationID"), slog.String("city", city.Name))

	candidates, err := s.provider.Search(ctx, city.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Provider search failed")
		return 0, err
	}
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	if len(candidates) == 0 {
		span.SetStatus(codes.Error, "No candidates")
		return 0, fmt.Errorf("weather location for city %s %w", city.Name, types.ErrNotFound)
	}

	chosen := candidates[0].ID
	for _, c := range candidates {
		if c.Country == city.CountryName && c.Region == city.RegionName {
			chosen = c.ID
			break
		}
	}

	l.DebugContext(ctx, "Resolved provider location", slog.Int64("locationID", chosen), slog.Int("candidates", len(candidates)))
	span.SetAttributes(attribute.Int64("location.id", chosen))
	span.SetStatus(codes.Ok, "Location resolved")
	return chosen, nil
}

func (s *ServiceImpl) resolveCity(ctx context.Context, cityID int64) (int64, error) {
	city, err := s.cities.GetByID(ctx, cityID)
	if err != nil {
		return 0, err
	}
	return s.ResolveLocationID(ctx, *city)
}

func (s *ServiceImpl) CurrentByCityID(ctx context.Context, cityID int64) (json.RawMessage, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "CurrentByCityID", trace.WithAttributes(
		attribute.Int64("city.id", cityID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CurrentByCityID"), slog.Int64("cityID", cityID))

	locationID, err := s.resolveCity(ctx, cityID)
	if err != nil {
		l.WarnContext(ctx, "Could not resolve city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Resolution failed")
		return nil, err
	}

	payload, err := s.provider.Current(ctx, locationID)
	if err != nil {
		l.WarnContext(ctx, "Current weather fetch failed", slog.Int64("locationID", locationID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Current weather fetch failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Current weather fetched")
	return payload, nil
}

func matchesFilter(loc types.Location, params types.WeatherSearchParams) bool {
	if params.Region != "" && loc.Region != params.Region {
		return false
	}
	if params.Country != "" && loc.Country != params.Country {
		return false
	}
	return true
}

// CurrentBySearch returns the current weather of every search candidate that
// passes the optional region and country filters, in provider order. The
// payloads are fetched one after another.
func (s *ServiceImpl) CurrentBySearch(ctx context.Context, params types.WeatherSearchParams) ([]json.RawMessage, error) {
	params.City = strings.TrimSpace(params.City)
	params.Region = strings.TrimSpace(params.Region)
	params.Country = strings.TrimSpace(params.Country)

	ctx, span := otel.Tracer("WeatherService").Start(ctx, "CurrentBySearch", trace.WithAttributes(
		attribute.String("city.name", params.City),
		attribute.String("region.name", params.Region),
		attribute.String("country.name", params.Country),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CurrentBySearch"), slog.String("city", params.City))

	if params.City == "" {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, fmt.Errorf("%w: city is required", types.ErrValidation)
	}

	candidates, err := s.provider.Search(ctx, params.City)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Provider search failed")
		return nil, err
	}

	results := make([]json.RawMessage, 0, len(candidates))
	for _, c := range candidates {
		if !matchesFilter(c, params) {
			continue
		}
		payload, err := s.provider.Current(ctx, c.ID)
		if err != nil {
			l.WarnContext(ctx, "Current weather fetch failed", slog.Int64("locationID", c.ID), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Current weather fetch failed")
			return nil, err
		}
		results = append(results, payload)
	}

	l.InfoContext(ctx, "Search weather fetched", slog.Int("candidates", len(candidates)), slog.Int("results", len(results)))
	span.SetStatus(codes.Ok, "Search weather fetched")
	return results, nil
}

func (s *ServiceImpl) ForecastByCityID(ctx context.Context, cityID int64, days int) (json.RawMessage, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "ForecastByCityID", trace.WithAttributes(
		attribute.Int64("city.id", cityID),
		attribute.Int("forecast.days", days),
	))
	defer span.End()

	if days < MinForecastDays || days > MaxForecastDays {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, fmt.Errorf("%w: days must be between %d and %d", types.ErrValidation, MinForecastDays, MaxForecastDays)
	}

	locationID, err := s.resolveCity(ctx, cityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Resolution failed")
		return nil, err
	}

	payload, err := s.provider.Forecast(ctx, locationID, days)
	if err != nil {
		s.logger.WarnContext(ctx, "Forecast fetch failed", slog.String("method", "ForecastByCityID"), slog.Int64("locationID", locationID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Forecast fetch failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Forecast fetched")
	return payload, nil
}
