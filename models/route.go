package models

// Route is immutable reference data for an origin-destination lane.
type Route struct {
	Origin         string  `bson:"origin" json:"origin"`                       // IATA code, uppercase
	Destination    string  `bson:"destination" json:"destination"`             // IATA code, uppercase
	BasePricePerKg float64 `bson:"base_price_per_kg" json:"base_price_per_kg"` // USD per kg
	TransitDays    int     `bson:"transit_days" json:"transit_days"`
}
