package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-geo-weather/app/db"
	"github.com/FACorreiaa/go-geo-weather/app/observability/metrics"
	"github.com/FACorreiaa/go-geo-weather/config"
	"github.com/FACorreiaa/go-geo-weather/internal/api/city"
	"github.com/FACorreiaa/go-geo-weather/internal/api/country"
	"github.com/FACorreiaa/go-geo-weather/internal/api/region"
	"github.com/FACorreiaa/go-geo-weather/internal/api/weather"
	"github.com/FACorreiaa/go-geo-weather/internal/router"
	"github.com/FACorreiaa/go-geo-weather/internal/weatherapi"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Pool           *pgxpool.Pool
	ConnectionURL  string
	CountryHandler *country.HandlerImpl
	RegionHandler  *region.HandlerImpl
	CityHandler    *city.Handler
	WeatherHandler *weather.HandlerImpl
}

// NewContainer opens the pool and wires repositories, services and handlers.
// m may be nil, in which case nothing is recorded.
func NewContainer(cfg *config.Config, m *metrics.AppMetrics, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	countryRepo := country.NewPostgresCountryRepo(pool, m, logger)
	countryService := country.NewService(countryRepo, logger)
	countryHandler := country.NewHandlerImpl(countryService, logger)

	regionRepo := region.NewPostgresRegionRepo(pool, m, logger)
	regionService := region.NewService(regionRepo, logger)
	regionHandler := region.NewHandlerImpl(regionService, logger)

	cityRepo := city.NewCityRepository(pool, m, logger)
	cityService := city.NewCityService(cityRepo, logger)
	cityHandler := city.NewCityHandler(cityService, logger)

	if cfg.WeatherAPI.Key == "" {
		logger.Warn("Weather provider key is empty; weather endpoints will fail until it is set")
	}
	provider := weatherapi.NewClient(cfg.WeatherAPI.BaseURL, cfg.WeatherAPI.Key, cfg.WeatherAPI.Timeout, m, logger)
	weatherService := weather.NewWeatherService(cityRepo, provider, logger)
	weatherHandler := weather.NewHandlerImpl(weatherService, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Pool:           pool,
		ConnectionURL:  dbConfig.ConnectionURL,
		CountryHandler: countryHandler,
		RegionHandler:  regionHandler,
		CityHandler:    cityHandler,
		WeatherHandler: weatherHandler,
	}, nil
}

// RouterConfig exposes the handlers in the shape router.SetupRouter expects.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		CountryHandler: c.CountryHandler,
		RegionHandler:  c.RegionHandler,
		CityHandler:    c.CityHandler,
		WeatherHandler: c.WeatherHandler,
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations applies pending migrations against the container's database.
func (c *Container) RunMigrations() error {
	return database.RunMigrations(c.ConnectionURL, c.Logger)
}
