package models

// CargoType enumerates the cargo categories the pricing rules know about.
type CargoType string

const (
	CargoGeneral    CargoType = "general"
	CargoPerishable CargoType = "perishable"
	CargoHazardous  CargoType = "hazardous"
	CargoVehicles   CargoType = "vehicles"
	CargoLivestock  CargoType = "livestock"
)

// CargoTypes lists all valid cargo types in a stable order.
var CargoTypes = []CargoType{
	CargoGeneral, CargoPerishable, CargoHazardous, CargoVehicles, CargoLivestock,
}

// CargoSpec is a fully validated shipment specification. Weight is in tonnes,
// volume in cubic meters, shipping date in "YYYY-MM-DD".
type CargoSpec struct {
	CargoType    CargoType `bson:"cargo_type" json:"cargo_type"`
	WeightTonnes float64   `bson:"weight_tonnes" json:"weight_tonnes"`
	VolumeM3     *float64  `bson:"volume_m3,omitempty" json:"volume_m3,omitempty"`
	ShippingDate string    `bson:"shipping_date" json:"shipping_date"`
}

// QuoteBreakdown itemizes a computed price so clients can show how the
// total was reached. All amounts are in USD, rounded to cents.
type QuoteBreakdown struct {
	BaseCost             float64 `json:"base_cost"`
	CargoMultiplier      float64 `json:"cargo_multiplier"`
	CargoSurcharge       float64 `json:"cargo_surcharge"`
	VolumeSurcharge      float64 `json:"volume_surcharge"`
	PeakSeasonMultiplier float64 `json:"peak_season_multiplier"`
	PeakSeasonSurcharge  float64 `json:"peak_season_surcharge"`
	Total                float64 `json:"total"`
}
