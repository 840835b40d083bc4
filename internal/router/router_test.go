package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	_ "github.com/FACorreiaa/go-geo-weather/docs"
	"github.com/FACorreiaa/go-geo-weather/internal/api/city"
	"github.com/FACorreiaa/go-geo-weather/internal/api/country"
	"github.com/FACorreiaa/go-geo-weather/internal/api/region"
	"github.com/FACorreiaa/go-geo-weather/internal/api/weather"
)

type RouterSuite struct {
	suite.Suite
	router chi.Router
}

// Services are nil: every request below is rejected before reaching them.
func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = SetupRouter(&Config{
		CountryHandler: country.NewHandlerImpl(nil, logger),
		RegionHandler:  region.NewHandlerImpl(nil, logger),
		CityHandler:    city.NewCityHandler(nil, logger),
		WeatherHandler: weather.NewHandlerImpl(nil, logger),
	})
}

func (s *RouterSuite) serve(method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func (s *RouterSuite) TestPing() {
	rr := s.serve(http.MethodGet, "/ping")
	s.Equal(http.StatusOK, rr.Code)
	s.Equal("pong", rr.Body.String())
}

func (s *RouterSuite) TestIDRoutesAreMounted() {
	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/country/abc"},
		{http.MethodPut, "/country/abc"},
		{http.MethodDelete, "/country/0"},
		{http.MethodGet, "/region/abc"},
		{http.MethodDelete, "/region/-1"},
		{http.MethodGet, "/city/abc"},
		{http.MethodPut, "/city/abc"},
		{http.MethodGet, "/weather/current/abc"},
		{http.MethodGet, "/weather/forecast?days=2"},
	} {
		rr := s.serve(tc.method, tc.target)
		s.Equal(http.StatusBadRequest, rr.Code, "%s %s", tc.method, tc.target)
	}
}

func (s *RouterSuite) TestUnknownRoutes() {
	s.Equal(http.StatusNotFound, s.serve(http.MethodGet, "/planet/all").Code)
	s.Equal(http.StatusMethodNotAllowed, s.serve(http.MethodPatch, "/city/1").Code)
}

func (s *RouterSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/country/all", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	s.Equal("http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}

func (s *RouterSuite) TestSwaggerUI() {
	rr := s.serve(http.MethodGet, "/swagger/index.html")
	s.Equal(http.StatusOK, rr.Code)

	rr = s.serve(http.MethodGet, "/swagger/doc.json")
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "/weather/forecast")
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
