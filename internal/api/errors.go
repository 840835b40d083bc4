package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

const (
	msgKeyDisabled = "Weather API key has been disabled. Please check that your API key is correct."
	msgKeyInvalid  = "Weather API key is invalid or not exists. Please check you API key."
	msgTimeout     = "The request timed out. Ensure the Weather API is reachable and try again."
	msgUnavailable = "Weather API is unavailable. Check your network connection."
)

// StatusFor maps a service error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrConflict), errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrProviderKeyDisabled):
		return http.StatusForbidden
	case errors.Is(err, types.ErrProviderKeyInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrProviderTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, types.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err using the status from StatusFor. Domain errors keep
// their own message, provider failures get a fixed one and anything
// unexpected is reported with fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := StatusFor(err)

	var msg string
	switch {
	case errors.Is(err, types.ErrProviderKeyDisabled):
		msg = msgKeyDisabled
	case errors.Is(err, types.ErrProviderKeyInvalid):
		msg = msgKeyInvalid
	case errors.Is(err, types.ErrProviderTimeout):
		msg = msgTimeout
	case errors.Is(err, types.ErrProviderUnavailable):
		msg = msgUnavailable
	case errors.Is(err, types.ErrProviderIO):
		msg = "An unexpected error occurred: " + err.Error()
	case status == http.StatusInternalServerError:
		slog.ErrorContext(r.Context(), fallback, slog.Any("error", err))
		msg = fallback
	default:
		msg = err.Error()
	}

	ErrorResponse(w, r, status, msg)
}

// ParseIDParam reads a positive integer chi URL parameter.
func ParseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	return parsePositiveInt(name, raw)
}

// ParseIDQuery reads a required positive integer query parameter.
func ParseIDQuery(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: query parameter %q is required", types.ErrValidation, name)
	}
	return parsePositiveInt(name, raw)
}

func parsePositiveInt(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", types.ErrValidation, name, raw)
	}
	return id, nil
}

// ParseCountryFilter turns the country=<name-or-id> query parameter into a
// filter. All-digit values are ids. It returns nil when the parameter is absent.
func ParseCountryFilter(r *http.Request) *types.CountryFilter {
	raw := strings.TrimSpace(r.URL.Query().Get("country"))
	if raw == "" {
		return nil
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &types.CountryFilter{ID: &id}
	}
	return &types.CountryFilter{Name: raw}
}
