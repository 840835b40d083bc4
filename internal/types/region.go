package types

// Region belongs to exactly one country; its name is unique within that country.
type Region struct {
	ID          int64  `json:"regionId"`
	Name        string `json:"regionName"`
	CountryID   int64  `json:"countryId"`
	CountryName string `json:"countryName"`
}

type CreateRegionParams struct {
	Name      string `json:"name" example:"Jetisu"`
	CountryID int64  `json:"countryId" example:"1"`
}

type CreateRegionSimpleParams struct {
	RegionName  string `json:"regionName" example:"Jetisu"`
	CountryName string `json:"countryName" example:"Kazakhstan"`
}

type UpdateRegionParams struct {
	RegionName  *string `json:"regionName,omitempty"`
	CountryName *string `json:"countryName,omitempty"`
}
