package types

// City is a city record joined with its owning region and country.
type City struct {
	ID          int64  `json:"cityId"`
	Name        string `json:"cityName"`
	RegionID    int64  `json:"regionId"`
	RegionName  string `json:"regionName"`
	CountryID   int64  `json:"countryId"`
	CountryName string `json:"countryName"`
}

// CreateCityParams is the body of POST /city/create. The region must already exist.
type CreateCityParams struct {
	Name     string `json:"name" example:"Almaty"`
	RegionID int64  `json:"regionId" example:"1"`
}

// CreateCitySimpleParams is the body of POST /city/create-simple.
// Missing regions and countries are created on the fly.
type CreateCitySimpleParams struct {
	CityName    string `json:"cityName" example:"Almaty"`
	RegionName  string `json:"regionName" example:"Almaty City"`
	CountryName string `json:"countryName" example:"Kazakhstan"`
}

// UpdateCityParams uses pointers for partial updates.
type UpdateCityParams struct {
	CityName    *string `json:"cityName,omitempty"`
	RegionName  *string `json:"regionName,omitempty"`
	CountryName *string `json:"countryName,omitempty"`
}
