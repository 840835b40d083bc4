package country

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

// Service defines the business logic contract for countries.
type Service interface {
	GetAll(ctx context.Context) ([]types.Country, error)
	GetByID(ctx context.Context, id int64) (*types.Country, error)
	Create(ctx context.Context, params types.CreateCountryParams) (*types.Country, error)
	Update(ctx context.Context, id int64, params types.UpdateCountryParams) (*types.Country, error)
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

func (s *ServiceImpl) GetAll(ctx context.Context) ([]types.Country, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "GetAll")
	defer span.End()

	countries, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch countries", slog.String("method", "GetAll"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch countries")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Countries fetched")
	return countries, nil
}

func (s *ServiceImpl) GetByID(ctx context.Context, id int64) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "GetByID", trace.WithAttributes(
		attribute.Int64("country.id", id),
	))
	defer span.End()

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "Country lookup failed", slog.String("method", "GetByID"), slog.Int64("countryID", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Country lookup failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Country fetched")
	return c, nil
}

// Create validates and inserts a country. Names are trimmed; a blank name is
// a validation error.
func (s *ServiceImpl) Create(ctx context.Context, params types.CreateCountryParams) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "Create")
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"))

	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		span.SetStatus(codes.Error, "Validation failed")
		return nil, fmt.Errorf("%w: country name is required", types.ErrValidation)
	}

	c, err := s.repo.Create(ctx, params)
	if err != nil {
		l.WarnContext(ctx, "Failed to create country", slog.String("name", params.Name), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create country")
		return nil, err
	}

	l.InfoContext(ctx, "Country created", slog.Int64("countryID", c.ID))
	span.SetStatus(codes.Ok, "Country created")
	return c, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int64, params types.UpdateCountryParams) (*types.Country, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "Update", trace.WithAttributes(
		attribute.Int64("country.id", id),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Update"), slog.Int64("countryID", id))

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			span.SetStatus(codes.Error, "Validation failed")
			return nil, fmt.Errorf("%w: country name must not be blank", types.ErrValidation)
		}
		params.Name = &name
	}

	c, err := s.repo.Update(ctx, id, params)
	if err != nil {
		l.WarnContext(ctx, "Failed to update country", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update country")
		return nil, err
	}

	l.InfoContext(ctx, "Country updated")
	span.SetStatus(codes.Ok, "Country updated")
	return c, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := otel.Tracer("CountryService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.Int64("country.id", id),
	))
	defer span.End()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete country", slog.String("method", "Delete"), slog.Int64("countryID", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete country")
		return false, err
	}
	span.SetStatus(codes.Ok, "Country delete done")
	return deleted, nil
}
