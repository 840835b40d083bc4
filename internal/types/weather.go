package types

// Location is one candidate returned by the provider search endpoint.
type Location struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	URL     string  `json:"url"`
}

// WeatherSearchParams narrows a free-text city search. Empty Region or
// Country means the filter is not applied.
type WeatherSearchParams struct {
	City    string
	Region  string
	Country string
}
