// Package pricing computes shipment prices from reference data and a
// validated cargo spec. It is deterministic and never consults the LLM.
package pricing

import (
	"math"
	"time"

	"cargoassist/models"
)

// Multipliers applied on top of the base weight cost per cargo type.
var cargoMultipliers = map[models.CargoType]float64{
	models.CargoGeneral:    1.0,
	models.CargoPerishable: 1.5,
	models.CargoHazardous:  2.0,
	models.CargoVehicles:   1.8,
	models.CargoLivestock:  2.5,
}

// peakMonths carries a 15% surcharge: the holiday run-up (Nov-Dec) and the
// summer months (Jun-Aug).
var peakMonths = map[time.Month]bool{
	time.June: true, time.July: true, time.August: true,
	time.November: true, time.December: true,
}

const (
	peakSurchargeRate = 0.15
	// Standard air-cargo volumetric conversion: one cubic meter bills as 167 kg.
	volumetricKgPerM3 = 167.0
	// Low-density threshold: volume above weight-in-tonnes * 6 m3 triggers the
	// volumetric check.
	lowDensityVolumeFactor = 6.0
	volumetricChargeRate   = 0.5
)

// Multiplier returns the pricing factor for a cargo type. Unknown types
// price as general cargo; validation upstream prevents them reaching here.
func Multiplier(ct models.CargoType) float64 {
	if m, ok := cargoMultipliers[ct]; ok {
		return m
	}
	return 1.0
}

// Quote computes the deterministic price for a spec on a route, in order:
// base weight cost, cargo-type multiplier, low-density volume surcharge,
// peak-season surcharge, then rounding to cents.
func Quote(route models.Route, spec models.CargoSpec) models.QuoteBreakdown {
	weightKg := spec.WeightTonnes * 1000
	baseCost := route.BasePricePerKg * weightKg
	multiplier := Multiplier(spec.CargoType)
	costWithCargo := baseCost * multiplier

	var volumeSurcharge float64
	if spec.VolumeM3 != nil && *spec.VolumeM3 > spec.WeightTonnes*lowDensityVolumeFactor {
		volumetricKg := *spec.VolumeM3 * volumetricKgPerM3
		if volumetricKg > weightKg {
			volumeSurcharge = (volumetricKg - weightKg) * route.BasePricePerKg * volumetricChargeRate
		}
	}

	peakMultiplier := 1.0
	if d, err := time.Parse("2006-01-02", spec.ShippingDate); err == nil && peakMonths[d.Month()] {
		peakMultiplier = 1 + peakSurchargeRate
	}

	subtotal := costWithCargo + volumeSurcharge
	return models.QuoteBreakdown{
		BaseCost:             round2(baseCost),
		CargoMultiplier:      multiplier,
		CargoSurcharge:       round2(baseCost * (multiplier - 1)),
		VolumeSurcharge:      round2(volumeSurcharge),
		PeakSeasonMultiplier: peakMultiplier,
		PeakSeasonSurcharge:  round2(subtotal * (peakMultiplier - 1)),
		Total:                round2(subtotal * peakMultiplier),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
