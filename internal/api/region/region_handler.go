package region

import (
	"context"
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
	CreateSimple(w http.ResponseWriter, r *http.Request)
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

func startSpan(r *http.Request, name, route string) (context.Context, trace.Span) {
	return otel.Tracer("RegionHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
}

// GetAll godoc
// @Summary      List regions
// @Description  Lists all regions, or the regions of one country given by name or id.
// @Tags         Region
// @Produce      json
// @Param        country query string false "Country name or id"
// @Success      200 {array} types.Region
// @Failure      404 {object} types.Response
// @Router       /region/all [get]
func (h *HandlerImpl) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetAll", "/region/all")
	defer span.End()

	regions, err := h.service.GetAll(ctx, api.ParseCountryFilter(r))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list regions")
		api.WriteError(w, r, err, "Failed to retrieve regions")
		return
	}

	span.SetStatus(codes.Ok, "Regions listed")
	api.WriteJSONResponse(w, r, http.StatusOK, regions)
}

// GetByID godoc
// @Summary      Get a region
// @Tags         Region
// @Produce      json
// @Param        id path int true "Region ID"
// @Success      200 {object} types.Region
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /region/{id} [get]
func (h *HandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetByID", "/region/{id}")
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reg, err := h.service.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		api.WriteError(w, r, err, "Failed to retrieve region")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, reg)
}

// Create godoc
// @Summary      Create a region in an existing country
// @Tags         Region
// @Accept       json
// @Produce      json
// @Param        region body types.CreateRegionParams true "Region"
// @Success      201 {object} types.Region
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /region [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "Create", "/region")
	defer span.End()

	var params types.CreateRegionParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		h.logger.WarnContext(ctx, "Invalid request body", slog.String("HandlerImpl", "Create"), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reg, err := h.service.Create(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create region")
		api.WriteError(w, r, err, "Failed to create region")
		return
	}

	span.SetStatus(codes.Ok, "Region created")
	api.WriteJSONResponse(w, r, http.StatusCreated, reg)
}

// CreateSimple godoc
// @Summary      Create a region by country name
// @Description  The country is created when it does not exist yet.
// @Tags         Region
// @Accept       json
// @Produce      json
// @Param        region body types.CreateRegionSimpleParams true "Region and country names"
// @Success      201 {object} types.Region
// @Failure      400 {object} types.Response
// @Router       /region/create-simple [post]
func (h *HandlerImpl) CreateSimple(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "CreateSimple", "/region/create-simple")
	defer span.End()

	var params types.CreateRegionSimpleParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reg, err := h.service.CreateSimple(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create region")
		api.WriteError(w, r, err, "Failed to create region")
		return
	}

	span.SetStatus(codes.Ok, "Region created")
	api.WriteJSONResponse(w, r, http.StatusCreated, reg)
}

// Update godoc
// @Summary      Rename a region or move it to another country
// @Tags         Region
// @Accept       json
// @Produce      json
// @Param        id path int true "Region ID"
// @Param        region body types.UpdateRegionParams true "Fields to change"
// @Success      200 {object} types.Region
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /region/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "Update", "/region/{id}")
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var params types.UpdateRegionParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reg, err := h.service.Update(ctx, id, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update region")
		api.WriteError(w, r, err, "Failed to update region")
		return
	}

	span.SetStatus(codes.Ok, "Region updated")
	api.WriteJSONResponse(w, r, http.StatusOK, reg)
}

// Delete godoc
// @Summary      Delete a region and its cities
// @Tags         Region
// @Produce      json
// @Param        id path int true "Region ID"
// @Success      200 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /region/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "Delete", "/region/{id}")
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.service.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		api.WriteError(w, r, err, "Failed to delete region")
		return
	}
	if !deleted {
		api.ErrorResponse(w, r, http.StatusNotFound, fmt.Sprintf("Region with id %d not found", id))
		return
	}

	span.SetStatus(codes.Ok, "Region deleted")
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: fmt.Sprintf("Region with id %d deleted successfully.", id),
	})
}
