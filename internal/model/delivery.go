package model

// DeliveryEstimateRequest carries either a coordinate or a postal code.
type DeliveryEstimateRequest struct {
	Latitude   *float64 `json:"latitude" validate:"required_without=PostalCode,omitempty,latitude"`
	Longitude  *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
	PostalCode string   `json:"postalCode" validate:"omitempty,len=6,numeric"`
}
