package city

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetAllCities(ctx context.Context, filter *types.CountryFilter) ([]types.City, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.City), args.Error(1)
}

func (m *MockService) GetCity(ctx context.Context, id int64) (*types.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func (m *MockService) CreateCity(ctx context.Context, params types.CreateCityParams) (*types.City, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func (m *MockService) CreateCitySimple(ctx context.Context, params types.CreateCitySimpleParams) (*types.City, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func (m *MockService) UpdateCity(ctx context.Context, id int64, params types.UpdateCityParams) (*types.City, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func (m *MockService) DeleteCity(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newTestRouter(svc Service) http.Handler {
	h := NewCityHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Get("/city/all", h.GetAllCities)
	r.Get("/city/{id}", h.GetCity)
	r.Post("/city/create", h.CreateCity)
	r.Post("/city/create-simple", h.CreateCitySimple)
	r.Put("/city/{id}", h.UpdateCity)
	r.Delete("/city/{id}", h.DeleteCity)
	return r
}

func TestHandler_GetAllCities(t *testing.T) {
	svc := new(MockService)
	router := newTestRouter(svc)

	almaty := types.City{ID: 1, Name: "Almaty", RegionID: 1, RegionName: "Almaty City", CountryID: 1, CountryName: "Kazakhstan"}
	svc.On("GetAllCities", mock.Anything, (*types.CountryFilter)(nil)).Return([]types.City{almaty}, nil).Once()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/city/all", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"cityId":1,"cityName":"Almaty","regionId":1,"regionName":"Almaty City","countryId":1,"countryName":"Kazakhstan"}]`, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestHandler_CreateCitySimple(t *testing.T) {
	svc := new(MockService)
	router := newTestRouter(svc)

	params := types.CreateCitySimpleParams{CityName: "Almaty", RegionName: "Almaty City", CountryName: "Kazakhstan"}
	svc.On("CreateCitySimple", mock.Anything, params).
		Return(&types.City{ID: 1, Name: "Almaty", RegionID: 1, RegionName: "Almaty City", CountryID: 1, CountryName: "Kazakhstan"}, nil).Once()

	rr := httptest.NewRecorder()
	body := strings.NewReader(`{"cityName":"Almaty","regionName":"Almaty City","countryName":"Kazakhstan"}`)
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/city/create-simple", body))
	require.Equal(t, http.StatusCreated, rr.Code)

	var city types.City
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &city))
	assert.Equal(t, "Kazakhstan", city.CountryName)
	svc.AssertExpectations(t)
}

func TestHandler_CreateCitySimple_Validation(t *testing.T) {
	svc := new(MockService)
	router := newTestRouter(svc)

	svc.On("CreateCitySimple", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: countryName is required", types.ErrValidation)).Once()

	rr := httptest.NewRecorder()
	body := strings.NewReader(`{"cityName":"Almaty","regionName":"Almaty City"}`)
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/city/create-simple", body))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "countryName is required")
}

func TestHandler_GetCity(t *testing.T) {
	svc := new(MockService)
	router := newTestRouter(svc)
	svc.On("GetCity", mock.Anything, int64(12)).Return(nil, fmt.Errorf("city with id 12 %w", types.ErrNotFound)).Once()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/city/12", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "city with id 12 not found")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/city/twelve", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_DeleteCity(t *testing.T) {
	svc := new(MockService)
	router := newTestRouter(svc)
	svc.On("DeleteCity", mock.Anything, int64(3)).Return(true, nil).Once()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/city/3", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"City with id 3 deleted successfully."}`, rr.Body.String())
}
