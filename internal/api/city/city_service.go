package city

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetAllCities(ctx context.Context, filter *types.CountryFilter) ([]types.City, error)
	GetCity(ctx context.Context, id int64) (*types.City, error)
	CreateCity(ctx context.Context, params types.CreateCityParams) (*types.City, error)
	CreateCitySimple(ctx context.Context, params types.CreateCitySimpleParams) (*types.City, error)
	UpdateCity(ctx context.Context, id int64, params types.UpdateCityParams) (*types.City, error)
	DeleteCity(ctx context.Context, id int64) (bool, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   CityRepository
}

func NewCityService(repo CityRepository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func trimName(field string, v *string) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return fmt.Errorf("%w: %s is required", types.ErrValidation, field)
	}
	return nil
}

// trimOptional returns a trimmed copy of v; a provided blank value is rejected.
func trimOptional(field string, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	trimmed := *v
	if err := trimName(field, &trimmed); err != nil {
		return nil, err
	}
	return &trimmed, nil
}

func (s *ServiceImpl) GetAllCities(ctx context.Context, filter *types.CountryFilter) ([]types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetAllCities")
	defer span.End()

	l := s.logger.With(slog.String("method", "GetAllCities"))

	cities, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve cities")
		return nil, err
	}

	l.DebugContext(ctx, "Cities retrieved", slog.Int("count", len(cities)))
	span.SetStatus(codes.Ok, "Cities retrieved")
	return cities, nil
}

func (s *ServiceImpl) GetCity(ctx context.Context, id int64) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCity", trace.WithAttributes(attribute.Int64("city.id", id)))
	defer span.End()

	city, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "City lookup failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "City retrieved")
	return city, nil
}

func (s *ServiceImpl) CreateCity(ctx context.Context, params types.CreateCityParams) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "CreateCity")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateCity"))

	if err := trimName("name", &params.Name); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}
	if params.RegionID <= 0 {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, fmt.Errorf("%w: regionId is required", types.ErrValidation)
	}

	city, err := s.repo.Create(ctx, params)
	if err != nil {
		l.WarnContext(ctx, "Failed to create city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create city")
		return nil, err
	}

	l.InfoContext(ctx, "City created", slog.Int64("cityID", city.ID))
	span.SetStatus(codes.Ok, "City created")
	return city, nil
}

func (s *ServiceImpl) CreateCitySimple(ctx context.Context, params types.CreateCitySimpleParams) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "CreateCitySimple")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateCitySimple"))

	for _, f := range []struct {
		field string
		value *string
	}{
		{"cityName", &params.CityName},
		{"regionName", &params.RegionName},
		{"countryName", &params.CountryName},
	} {
		if err := trimName(f.field, f.value); err != nil {
			span.SetStatus(codes.Error, "Validation failed")
			return nil, err
		}
	}

	city, err := s.repo.CreateSimple(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create city")
		return nil, err
	}

	l.InfoContext(ctx, "City created", slog.Int64("cityID", city.ID), slog.Int64("regionID", city.RegionID))
	span.SetStatus(codes.Ok, "City created")
	return city, nil
}

func (s *ServiceImpl) UpdateCity(ctx context.Context, id int64, params types.UpdateCityParams) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "UpdateCity", trace.WithAttributes(attribute.Int64("city.id", id)))
	defer span.End()

	var err error
	if params.CityName, err = trimOptional("cityName", params.CityName); err == nil {
		if params.RegionName, err = trimOptional("regionName", params.RegionName); err == nil {
			params.CountryName, err = trimOptional("countryName", params.CountryName)
		}
	}
	if err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	city, err := s.repo.Update(ctx, id, params)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to update city", slog.String("method", "UpdateCity"), slog.Int64("cityID", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update city")
		return nil, err
	}
	span.SetStatus(codes.Ok, "City updated")
	return city, nil
}

func (s *ServiceImpl) DeleteCity(ctx context.Context, id int64) (bool, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "DeleteCity", trace.WithAttributes(attribute.Int64("city.id", id)))
	defer span.End()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete city")
		return false, err
	}
	span.SetStatus(codes.Ok, "City delete executed")
	return deleted, nil
}
