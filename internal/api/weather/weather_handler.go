package weather

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-geo-weather/internal/api"
	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CurrentByCityID(w http.ResponseWriter, r *http.Request)
	CurrentBySearch(w http.ResponseWriter, r *http.Request)
	Forecast(w http.ResponseWriter, r *http.Request)
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

// CurrentByCityID godoc
// @Summary      Current weather for a stored city
// @Description  Resolves the city to a provider location and returns the provider's current weather payload unchanged.
// @Tags         Weather
// @Produce      json
// @Param        cityId path int true "City ID"
// @Success      200 {object} object "Provider current weather payload"
// @Failure      400 {object} types.Response
// @Failure      401 {object} types.Response
// @Failure      403 {object} types.Response
// @Failure      404 {object} types.Response
// @Failure      408 {object} types.Response
// @Failure      503 {object} types.Response
// @Router       /weather/current/{cityId} [get]
func (h *HandlerImpl) CurrentByCityID(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "CurrentByCityID", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/weather/current/{cityId}"),
	))
	defer span.End()

	cityID, err := api.ParseIDParam(r, "cityId")
	if err != nil {
		span.SetStatus(codes.Error, "Invalid city id")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := h.service.CurrentByCityID(ctx, cityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Current weather failed")
		api.WriteError(w, r, err, "Failed to retrieve current weather")
		return
	}

	span.SetStatus(codes.Ok, "Current weather returned")
	api.WriteJSONResponse(w, r, http.StatusOK, payload)
}

// CurrentBySearch godoc
// @Summary      Current weather by city name
// @Description  Returns one provider payload per matching location. Same-named cities in different countries are all returned unless region or country narrow the search.
// @Tags         Weather
// @Produce      json
// @Param        city query string true "City name"
// @Param        region query string false "Region name, exact match"
// @Param        country query string false "Country name, exact match"
// @Success      200 {array} object "Provider current weather payloads"
// @Failure      400 {object} types.Response
// @Router       /weather/current [get]
func (h *HandlerImpl) CurrentBySearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "CurrentBySearch", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/weather/current"),
	))
	defer span.End()

	q := r.URL.Query()
	params := types.WeatherSearchParams{
		City:    q.Get("city"),
		Region:  q.Get("region"),
		Country: q.Get("country"),
	}

	payloads, err := h.service.CurrentBySearch(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search weather failed")
		api.WriteError(w, r, err, "Failed to retrieve current weather")
		return
	}

	span.SetStatus(codes.Ok, "Search weather returned")
	api.WriteJSONResponse(w, r, http.StatusOK, payloads)
}

// Forecast godoc
// @Summary      Forecast for a stored city
// @Description  Daily forecast without hourly detail.
// @Tags         Weather
// @Produce      json
// @Param        cid query int true "City ID"
// @Param        days query int true "Number of forecast days (1-14)"
// @Success      200 {object} object "Provider forecast payload"
// @Failure      400 {object} types.Response
// @Failure      404 {object} types.Response
// @Router       /weather/forecast [get]
func (h *HandlerImpl) Forecast(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "Forecast", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/weather/forecast"),
	))
	defer span.End()

	l := h.logger.With(slog.String("HandlerImpl", "Forecast"))

	cityID, err := api.ParseIDQuery(r, "cid")
	if err != nil {
		span.SetStatus(codes.Error, "Invalid cid")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		l.WarnContext(ctx, "Invalid days parameter", slog.String("days", r.URL.Query().Get("days")))
		span.SetStatus(codes.Error, "Invalid days")
		api.ErrorResponse(w, r, http.StatusBadRequest, "query parameter \"days\" must be an integer")
		return
	}

	payload, err := h.service.ForecastByCityID(ctx, cityID, days)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Forecast failed")
		api.WriteError(w, r, err, "Failed to retrieve forecast")
		return
	}

	span.SetStatus(codes.Ok, "Forecast returned")
	api.WriteJSONResponse(w, r, http.StatusOK, payload)
}
