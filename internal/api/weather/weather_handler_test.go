package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-geo-weather/internal/types"
	"github.com/FACorreiaa/go-geo-weather/internal/weatherapi"
)

// providerStub mimics the provider's search and current endpoints and
// records every request path and q parameter it sees.
type providerStub struct {
	mu        sync.Mutex
	calls     []string
	locations []types.Location
	status    int
}

func (p *providerStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.calls = append(p.calls, r.URL.Path+"?q="+r.URL.Query().Get("q"))
	p.mu.Unlock()

	if p.status != 0 {
		w.WriteHeader(p.status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/search.json":
		_ = json.NewEncoder(w).Encode(p.locations)
	case "/current.json", "/forecast.json":
		id := strings.TrimPrefix(r.URL.Query().Get("q"), "id:")
		for _, loc := range p.locations {
			if fmt.Sprint(loc.ID) == id {
				_, _ = fmt.Fprintf(w, `{"location":{"name":%q,"region":%q,"country":%q},"current":{"temp_c":12.5}}`, loc.Name, loc.Region, loc.Country)
				return
			}
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newWeatherRouter(t *testing.T, stub *providerStub, cities CityLookup) http.Handler {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := weatherapi.NewClient(srv.URL, "test-key", 5*time.Second, nil, logger)
	h := NewHandlerImpl(NewWeatherService(cities, client, logger), logger)

	r := chi.NewRouter()
	r.Get("/weather/current/{cityId}", h.CurrentByCityID)
	r.Get("/weather/current", h.CurrentBySearch)
	r.Get("/weather/forecast", h.Forecast)
	return r
}

func TestWeatherCurrentByCityID_Almaty(t *testing.T) {
	stub := &providerStub{locations: []types.Location{
		{ID: 2526079, Name: "Almaty", Region: "Almaty City", Country: "Kazakhstan"},
	}}
	cities := new(MockCityLookup)
	cities.On("GetByID", mock.Anything, int64(1)).
		Return(&types.City{ID: 1, Name: "Almaty", RegionID: 1, RegionName: "Almaty City", CountryID: 1, CountryName: "Kazakhstan"}, nil)

	router := newWeatherRouter(t, stub, cities)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/weather/current/1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Almaty", body.Location.Name)
	assert.Equal(t, []string{"/search.json?q=Almaty", "/current.json?q=id:2526079"}, stub.calls)
}

func TestWeatherCurrentBySearch_SameNameTwoCountries(t *testing.T) {
	stub := &providerStub{locations: []types.Location{
		{ID: 1, Name: "Hyderabad", Region: "Telangana", Country: "India"},
		{ID: 2, Name: "Hyderabad", Region: "Sindh", Country: "Pakistan"},
	}}
	router := newWeatherRouter(t, stub, new(MockCityLookup))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/weather/current?city=Hyderabad", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var payloads []struct {
		Location struct {
			Country string `json:"country"`
		} `json:"location"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payloads))
	require.Len(t, payloads, 2)
	assert.Equal(t, "India", payloads[0].Location.Country)
	assert.Equal(t, "Pakistan", payloads[1].Location.Country)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/weather/current?city=Hyderabad&country=Pakistan", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payloads))
	require.Len(t, payloads, 1)
	assert.Equal(t, "Pakistan", payloads[0].Location.Country)
}

func TestWeatherCurrentBySearch_NoMatchIsEmptyArray(t *testing.T) {
	stub := &providerStub{}
	router := newWeatherRouter(t, stub, new(MockCityLookup))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/weather/current?city=Nowhere", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestWeather_ProviderStatusMapping(t *testing.T) {
	tests := []struct {
		providerStatus int
		wantStatus     int
		wantMsg        string
	}{
		{http.StatusForbidden, http.StatusForbidden, "Weather API key has been disabled"},
		{http.StatusUnauthorized, http.StatusUnauthorized, "Weather API key is invalid"},
		{http.StatusRequestTimeout, http.StatusRequestTimeout, "The request timed out"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.providerStatus), func(t *testing.T) {
			stub := &providerStub{status: tt.providerStatus}
			router := newWeatherRouter(t, stub, new(MockCityLookup))

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/weather/current?city=Almaty", nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantMsg)
		})
	}
}

func TestWeather_ProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := weatherapi.NewClient(baseURL, "test-key", 2*time.Second, nil, logger)
	h := NewHandlerImpl(NewWeatherService(new(MockCityLookup), client, logger), logger)

	rr := httptest.NewRecorder()
	h.CurrentBySearch(rr, httptest.NewRequest(http.MethodGet, "/weather/current?city=Almaty", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestWeatherForecast_Params(t *testing.T) {
	stub := &providerStub{}
	router := newWeatherRouter(t, stub, new(MockCityLookup))

	for _, target := range []string{
		"/weather/forecast?days=3",
		"/weather/forecast?cid=abc&days=3",
		"/weather/forecast?cid=1",
		"/weather/forecast?cid=1&days=20",
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
	assert.Empty(t, stub.calls)
}

func TestWeather_ProviderResetDoesNotLeakKey(t *testing.T) {
	const secret = "SUPERSECRETKEY"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if conn, _, err := w.(http.Hijacker).Hijack(); err == nil {
			_ = conn.Close()
		}
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := weatherapi.NewClient(srv.URL, secret, 2*time.Second, nil, logger)
	h := NewHandlerImpl(NewWeatherService(new(MockCityLookup), client, logger), logger)

	rr := httptest.NewRecorder()
	h.CurrentBySearch(rr, httptest.NewRequest(http.MethodGet, "/weather/current?city=Almaty", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "An unexpected error occurred")
	assert.NotContains(t, rr.Body.String(), secret)
}
