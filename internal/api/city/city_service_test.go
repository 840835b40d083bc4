package city

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) GetAll(ctx context.Context, filter *types.CountryFilter) ([]types.City, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.City), args.Error(1)
}

func (m *MockCityRepository) GetByID(ctx context.Context, id int64) (*types.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func (m *MockCityRepository) Create(ctx context.Context, params types.CreateCityParams) (*types.City, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func (m *MockCityRepository) CreateSimple(ctx context.Context, params types.CreateCitySimpleParams) (*types.City, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func (m *MockCityRepository) Update(ctx context.Context, id int64, params types.UpdateCityParams) (*types.City, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func (m *MockCityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func setupServiceTest() (*ServiceImpl, *MockCityRepository) {
	repo := new(MockCityRepository)
	return NewCityService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestServiceImpl_CreateCitySimple(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		params types.CreateCitySimpleParams
		field  string
	}{
		{"missing city", types.CreateCitySimpleParams{RegionName: "Almaty City", CountryName: "Kazakhstan"}, "cityName"},
		{"missing region", types.CreateCitySimpleParams{CityName: "Almaty", CountryName: "Kazakhstan"}, "regionName"},
		{"missing country", types.CreateCitySimpleParams{CityName: "Almaty", RegionName: "Almaty City", CountryName: " "}, "countryName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := setupServiceTest()
			_, err := svc.CreateCitySimple(ctx, tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.Contains(t, err.Error(), tt.field)
			repo.AssertNotCalled(t, "CreateSimple", mock.Anything, mock.Anything)
		})
	}

	t.Run("delegates trimmed names", func(t *testing.T) {
		svc, repo := setupServiceTest()
		want := types.CreateCitySimpleParams{CityName: "Almaty", RegionName: "Almaty City", CountryName: "Kazakhstan"}
		repo.On("CreateSimple", mock.Anything, want).Return(&types.City{ID: 1, Name: "Almaty"}, nil).Once()

		city, err := svc.CreateCitySimple(ctx, types.CreateCitySimpleParams{
			CityName: "Almaty ", RegionName: " Almaty City", CountryName: "Kazakhstan",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), city.ID)
		repo.AssertExpectations(t)
	})
}

func TestServiceImpl_UpdateCity(t *testing.T) {
	ctx := context.Background()

	t.Run("blank region rejected", func(t *testing.T) {
		svc, repo := setupServiceTest()
		blank := "  "
		_, err := svc.UpdateCity(ctx, 1, types.UpdateCityParams{RegionName: &blank})
		assert.ErrorIs(t, err, types.ErrValidation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("trimmed copy is passed on", func(t *testing.T) {
		svc, repo := setupServiceTest()
		name := " Alma-Ata "
		repo.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p types.UpdateCityParams) bool {
			return p.CityName != nil && *p.CityName == "Alma-Ata" && p.RegionName == nil && p.CountryName == nil
		})).Return(&types.City{ID: 1, Name: "Alma-Ata"}, nil).Once()

		_, err := svc.UpdateCity(ctx, 1, types.UpdateCityParams{CityName: &name})
		require.NoError(t, err)
		assert.Equal(t, " Alma-Ata ", name)
		repo.AssertExpectations(t)
	})
}

func TestServiceImpl_CreateCity_RequiresRegion(t *testing.T) {
	svc, _ := setupServiceTest()
	_, err := svc.CreateCity(context.Background(), types.CreateCityParams{Name: "Almaty"})
	assert.ErrorIs(t, err, types.ErrValidation)
}
