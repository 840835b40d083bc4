package region

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
	GetAll(ctx context.Context, filter *types.CountryFilter) ([]types.Region, error)
	GetByID(ctx context.Context, id int64) (*types.Region, error)
	Create(ctx context.Context, params types.CreateRegionParams) (*types.Region, error)
	CreateSimple(ctx context.Context, params types.CreateRegionSimpleParams) (*types.Region, error)
	Update(ctx context.Context, id int64, params types.UpdateRegionParams) (*types.Region, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func requireName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", types.ErrValidation, field)
	}
	return value, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context, filter *types.CountryFilter) ([]types.Region, error) {
	ctx, span := otel.Tracer("RegionService").Start(ctx, "GetAll")
	defer span.End()

	regions, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to list regions", slog.String("method", "GetAll"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list regions")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Regions listed")
	return regions, nil
}

func (s *ServiceImpl) GetByID(ctx context.Context, id int64) (*types.Region, error) {
	ctx, span := otel.Tracer("RegionService").Start(ctx, "GetByID", trace.WithAttributes(attribute.Int64("region.id", id)))
	defer span.End()

	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Region lookup failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Region fetched")
	return reg, nil
}

func (s *ServiceImpl) Create(ctx context.Context, params types.CreateRegionParams) (*types.Region, error) {
	ctx, span := otel.Tracer("RegionService").Start(ctx, "Create")
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"))

	name, err := requireName("region name", params.Name)
	if err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}
	if params.CountryID <= 0 {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, fmt.Errorf("%w: countryId is required", types.ErrValidation)
	}
	params.Name = name

	reg, err := s.repo.Create(ctx, params)
	if err != nil {
		l.WarnContext(ctx, "Failed to create region", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create region")
		return nil, err
	}

	l.InfoContext(ctx, "Region created", slog.Int64("regionID", reg.ID))
	span.SetStatus(codes.Ok, "Region created")
	return reg, nil
}

func (s *ServiceImpl) CreateSimple(ctx context.Context, params types.CreateRegionSimpleParams) (*types.Region, error) {
	ctx, span := otel.Tracer("RegionService").Start(ctx, "CreateSimple")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateSimple"))

	var err error
	if params.RegionName, err = requireName("regionName", params.RegionName); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}
	if params.CountryName, err = requireName("countryName", params.CountryName); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	reg, err := s.repo.CreateSimple(ctx, params)
	if err != nil {
		l.WarnContext(ctx, "Failed to create region", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create region")
		return nil, err
	}

	l.InfoContext(ctx, "Region created", slog.Int64("regionID", reg.ID), slog.Int64("countryID", reg.CountryID))
	span.SetStatus(codes.Ok, "Region created")
	return reg, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int64, params types.UpdateRegionParams) (*types.Region, error) {
	ctx, span := otel.Tracer("RegionService").Start(ctx, "Update", trace.WithAttributes(attribute.Int64("region.id", id)))
	defer span.End()

	if params.RegionName != nil {
		name, err := requireName("regionName", *params.RegionName)
		if err != nil {
			span.SetStatus(codes.Error, "Validation failed")
			return nil, err
		}
		params.RegionName = &name
	}
	if params.CountryName != nil {
		name, err := requireName("countryName", *params.CountryName)
		if err != nil {
			span.SetStatus(codes.Error, "Validation failed")
			return nil, err
		}
		params.CountryName = &name
	}

	reg, err := s.repo.Update(ctx, id, params)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to update region", slog.String("method", "Update"), slog.Int64("regionID", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update region")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Region updated")
	return reg, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := otel.Tracer("RegionService").Start(ctx, "Delete", trace.WithAttributes(attribute.Int64("region.id", id)))
	defer span.End()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete region")
		return false, err
	}
	s.logger.InfoContext(ctx, "Region delete executed", slog.Int64("regionID", id), slog.Bool("deleted", deleted))
	span.SetStatus(codes.Ok, "Region delete executed")
	return deleted, nil
}
