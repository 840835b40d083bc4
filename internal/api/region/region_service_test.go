package region

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

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetAll(ctx context.Context, filter *types.CountryFilter) ([]types.Region, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Region), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*types.Region, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Region), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, params types.CreateRegionParams) (*types.Region, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Region), args.Error(1)
}

func (m *MockRepository) CreateSimple(ctx context.Context, params types.CreateRegionSimpleParams) (*types.Region, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Region), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int64, params types.UpdateRegionParams) (*types.Region, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Region), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func setupServiceTest() (*ServiceImpl, *MockRepository) {
	repo := new(MockRepository)
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestServiceImpl_Create_Validation(t *testing.T) {
	svc, repo := setupServiceTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, types.CreateRegionParams{Name: "", CountryID: 1})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = svc.Create(ctx, types.CreateRegionParams{Name: "Jetisu"})
	assert.ErrorIs(t, err, types.ErrValidation)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestServiceImpl_CreateSimple(t *testing.T) {
	ctx := context.Background()

	t.Run("trims names", func(t *testing.T) {
		svc, repo := setupServiceTest()
		want := &types.Region{ID: 1, Name: "Jetisu", CountryID: 2, CountryName: "Kazakhstan"}
		repo.On("CreateSimple", mock.Anything, types.CreateRegionSimpleParams{RegionName: "Jetisu", CountryName: "Kazakhstan"}).
			Return(want, nil).Once()

		got, err := svc.CreateSimple(ctx, types.CreateRegionSimpleParams{RegionName: " Jetisu", CountryName: "Kazakhstan "})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		repo.AssertExpectations(t)
	})

	t.Run("country required", func(t *testing.T) {
		svc, _ := setupServiceTest()
		_, err := svc.CreateSimple(ctx, types.CreateRegionSimpleParams{RegionName: "Jetisu"})
		assert.ErrorIs(t, err, types.ErrValidation)
	})
}

func TestServiceImpl_Update_BlankCountry(t *testing.T) {
	svc, repo := setupServiceTest()
	blank := ""

	_, err := svc.Update(context.Background(), 1, types.UpdateRegionParams{CountryName: &blank})
	assert.ErrorIs(t, err, types.ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
