package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/go-geo-weather/internal/api/city"
	"github.com/FACorreiaa/go-geo-weather/internal/api/country"
	"github.com/FACorreiaa/go-geo-weather/internal/api/region"
	"github.com/FACorreiaa/go-geo-weather/internal/api/weather"
)

// Config contains the handlers mounted by SetupRouter.
type Config struct {
	CountryHandler country.Handler
	RegionHandler  region.Handler
	CityHandler    *city.Handler
	WeatherHandler weather.Handler
}

// SetupRouter builds the application routes. Server-wide middleware
// (request id, logging, recovery) is applied in main before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/country", func(r chi.Router) {
		r.Get("/all", cfg.CountryHandler.GetAll)
		r.Post("/", cfg.CountryHandler.Create)
		r.Get("/{id}", cfg.CountryHandler.GetByID)
		r.Put("/{id}", cfg.CountryHandler.Update)
		r.Delete("/{id}", cfg.CountryHandler.Delete)
	})

	r.Route("/region", func(r chi.Router) {
		r.Get("/all", cfg.RegionHandler.GetAll)
		r.Post("/", cfg.RegionHandler.Create)
		r.Post("/create-simple", cfg.RegionHandler.CreateSimple)
		r.Get("/{id}", cfg.RegionHandler.GetByID)
		r.Put("/{id}", cfg.RegionHandler.Update)
		r.Delete("/{id}", cfg.RegionHandler.Delete)
	})

	r.Route("/city", func(r chi.Router) {
		r.Get("/all", cfg.CityHandler.GetAllCities)
		r.Post("/create", cfg.CityHandler.CreateCity)
		r.Post("/create-simple", cfg.CityHandler.CreateCitySimple)
		r.Get("/{id}", cfg.CityHandler.GetCity)
		r.Put("/{id}", cfg.CityHandler.UpdateCity)
		r.Delete("/{id}", cfg.CityHandler.DeleteCity)
	})

	r.Route("/weather", func(r chi.Router) {
		r.Get("/current", cfg.WeatherHandler.CurrentBySearch)
		r.Get("/current/{cityId}", cfg.WeatherHandler.CurrentByCityID)
		r.Get("/forecast", cfg.WeatherHandler.Forecast)
	})

	return r
}
