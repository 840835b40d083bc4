package types

// Country is the root of the hierarchy.
type Country struct {
	ID          int64  `json:"id"`
	CountryCode string `json:"countryCode,omitempty"`
	Name        string `json:"name"`
}

type CreateCountryParams struct {
	Name        string  `json:"name" example:"Kazakhstan"`
	CountryCode *string `json:"countryCode,omitempty" example:"KZ"`
}

type UpdateCountryParams struct {
	Name        *string `json:"name,omitempty" example:"Qazaq Republic"`
	CountryCode *string `json:"countryCode,omitempty" example:"QR"`
}

// CountryFilter selects a country either by id or by exact name.
// Exactly one of ID and Name is set.
type CountryFilter struct {
	ID   *int64
	Name string
}
