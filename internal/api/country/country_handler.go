package country

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-geo-weather/internal/api"
	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetAll(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// GetAll godoc
// @Summary      List countries
// @Tags         Country
// @Produce      json
// @Success      200 {array} types.Country
// @Failure      500 {object} types.Response
// @Router       /country/all [get]
func (h *HandlerImpl) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CountryHandler").Start(r.Context(), "GetAll", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/country/all"),
	))
	defer span.End()

	countries, err := h.service.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list countries")
		api.WriteError(w, r, err, "Failed to retrieve countries")
		return
	}

	span.SetStatus(codes.Ok, "Countries listed")
	api.WriteJSONResponse(w, r, http.StatusOK, countries)
}

// GetByID godoc
// @Summary      Get a country
// @Tags         Country
// @Produce      json
// @Param        id path int true "Country ID"
// @Success      200 {object} types.Country
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /country/{id} [get]
func (h *HandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CountryHandler").Start(r.Context(), "GetByID", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/country/{id}"),
	))
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		span.SetStatus(codes.Error, "Invalid country id")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.service.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get country")
		api.WriteError(w, r, err, "Failed to retrieve country")
		return
	}

	span.SetStatus(codes.Ok, "Country returned")
	api.WriteJSONResponse(w, r, http.StatusOK, c)
}

// Create godoc
// @Summary      Create a country
// @Tags         Country
// @Accept       json
// @Produce      json
// @Param        country body types.CreateCountryParams true "Country"
// @Success      201 {object} types.Country
// @Failure      400 {object} types.Response
// @Router       /country [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CountryHandler").Start(r.Context(), "Create", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/country"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "Create"))

	var params types.CreateCountryParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.service.Create(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create country")
		api.WriteError(w, r, err, "Failed to create country")
		return
	}

	span.SetStatus(codes.Ok, "Country created")
	api.WriteJSONResponse(w, r, http.StatusCreated, c)
}

// Update godoc
// @Summary      Update a country
// @Description  Only the provided fields are changed.
// @Tags         Country
// @Accept       json
// @Produce      json
// @Param        id path int true "Country ID"
// @Param        country body types.UpdateCountryParams true "Fields to change"
// @Success      200 {object} types.Country
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /country/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CountryHandler").Start(r.Context(), "Update", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/country/{id}"),
	))
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		span.SetStatus(codes.Error, "Invalid country id")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var params types.UpdateCountryParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.service.Update(ctx, id, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update country")
		api.WriteError(w, r, err, "Failed to update country")
		return
	}

	span.SetStatus(codes.Ok, "Country updated")
	api.WriteJSONResponse(w, r, http.StatusOK, c)
}

// Delete godoc
// @Summary      Delete a country
// @Description  Regions and cities of the country are deleted with it.
// @Tags         Country
// @Produce      json
// @Param        id path int true "Country ID"
// @Success      200 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /country/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CountryHandler").Start(r.Context(), "Delete", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/country/{id}"),
	))
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		span.SetStatus(codes.Error, "Invalid country id")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.service.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete country")
		api.WriteError(w, r, err, "Failed to delete country")
		return
	}
	if !deleted {
		span.SetStatus(codes.Error, "Country not found")
		api.ErrorResponse(w, r, http.StatusNotFound, fmt.Sprintf("Country with id %d not found", id))
		return
	}

	span.SetStatus(codes.Ok, "Country deleted")
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: fmt.Sprintf("Country with id %d deleted successfully.", id),
	})
}
