package city

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-geo-weather/internal/api"
	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewCityHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GetAllCities godoc
// @Summary      List cities
// @Description  Lists all cities, or the cities of one country given by name or id.
// @Tags         City
// @Produce      json
// @Param        country query string false "Country name or id"
// @Success      200 {array} types.City
// @Failure      500 {object} types.Response
// @Router       /city/all [get]
func (h *Handler) GetAllCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetAllCities", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/city/all"),
	))
	defer span.End()

	l := h.logger.With(slog.String("method", "GetAllCities"))
	l.DebugContext(ctx, "Retrieving cities", slog.String("country", r.URL.Query().Get("country")))

	cities, err := h.service.GetAllCities(ctx, api.ParseCountryFilter(r))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to retrieve cities")
		return
	}

	l.InfoContext(ctx, "Successfully returned cities", slog.Int("count", len(cities)))
	span.SetStatus(codes.Ok, "Cities returned successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, cities)
}

// GetCity godoc
// @Summary      Get a city
// @Tags         City
// @Produce      json
// @Param        id path int true "City ID"
// @Success      200 {object} types.City
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /city/{id} [get]
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/city/{id}"),
	))
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		span.SetStatus(codes.Error, "Invalid city id")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.Int64("city.id", id))

	city, err := h.service.GetCity(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to retrieve city")
		return
	}

	span.SetStatus(codes.Ok, "City returned")
	api.WriteJSONResponse(w, r, http.StatusOK, city)
}

// CreateCity godoc
// @Summary      Create a city in an existing region
// @Tags         City
// @Accept       json
// @Produce      json
// @Param        city body types.CreateCityParams true "City"
// @Success      201 {object} types.City
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /city/create [post]
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "CreateCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/city/create"),
	))
	defer span.End()

	var params types.CreateCityParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		h.logger.WarnContext(ctx, "Invalid request body", slog.String("method", "CreateCity"), slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	city, err := h.service.CreateCity(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to create city")
		return
	}

	span.SetStatus(codes.Ok, "City created")
	api.WriteJSONResponse(w, r, http.StatusCreated, city)
}

// CreateCitySimple godoc
// @Summary      Create a city by region and country names
// @Description  Missing regions and countries are created along with the city.
// @Tags         City
// @Accept       json
// @Produce      json
// @Param        city body types.CreateCitySimpleParams true "City, region and country names"
// @Success      201 {object} types.City
// @Failure      400 {object} types.Response
// @Router       /city/create-simple [post]
func (h *Handler) CreateCitySimple(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "CreateCitySimple", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/city/create-simple"),
	))
	defer span.End()

	var params types.CreateCitySimpleParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	city, err := h.service.CreateCitySimple(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to create city")
		return
	}

	span.SetStatus(codes.Ok, "City created")
	api.WriteJSONResponse(w, r, http.StatusCreated, city)
}

// UpdateCity godoc
// @Summary      Rename a city or move it to another region
// @Tags         City
// @Accept       json
// @Produce      json
// @Param        id path int true "City ID"
// @Param        city body types.UpdateCityParams true "Fields to change"
// @Success      200 {object} types.City
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /city/{id} [put]
func (h *Handler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "UpdateCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/city/{id}"),
	))
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var params types.UpdateCityParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	city, err := h.service.UpdateCity(ctx, id, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to update city")
		return
	}

	span.SetStatus(codes.Ok, "City updated")
	api.WriteJSONResponse(w, r, http.StatusOK, city)
}

// DeleteCity godoc
// @Summary      Delete a city
// @Tags         City
// @Produce      json
// @Param        id path int true "City ID"
// @Success      200 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /city/{id} [delete]
func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "DeleteCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/city/{id}"),
	))
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.service.DeleteCity(ctx, id)
	if err != nil {
		span.RecordError(err)
		api.WriteError(w, r, err, "Failed to delete city")
		return
	}
	if !deleted {
		span.SetStatus(codes.Error, "City not found")
		api.ErrorResponse(w, r, http.StatusNotFound, fmt.Sprintf("City with id %d not found", id))
		return
	}

	span.SetStatus(codes.Ok, "City deleted")
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: fmt.Sprintf("City with id %d deleted successfully.", id),
	})
}
