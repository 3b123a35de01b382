package pricing

import (
	"math"
	"testing"

	"cargoassist/models"
)

var jfkLHR = models.Route{
	Origin:         "JFK",
	Destination:    "LHR",
	BasePricePerKg: 2.50,
	TransitDays:    1,
}

func spec(ct models.CargoType, weight float64, date string) models.CargoSpec {
	return models.CargoSpec{CargoType: ct, WeightTonnes: weight, ShippingDate: date}
}

func TestQuoteBasicGeneralCargo(t *testing.T) {
	bd := Quote(jfkLHR, spec(models.CargoGeneral, 5, "2026-02-15"))
	if bd.Total != 12500.00 {
		t.Fatalf("total = %v, want 12500.00", bd.Total)
	}
	if bd.CargoSurcharge != 0 || bd.VolumeSurcharge != 0 || bd.PeakSeasonSurcharge != 0 {
		t.Fatalf("unexpected surcharges in %+v", bd)
	}
}

func TestQuoteDeterministic(t *testing.T) {
	s := spec(models.CargoHazardous, 12.5, "2026-03-01")
	v := 90.0
	s.VolumeM3 = &v
	first := Quote(jfkLHR, s)
	second := Quote(jfkLHR, s)
	if first != second {
		t.Fatalf("identical inputs produced different quotes: %+v vs %+v", first, second)
	}
}

func TestPeakSeasonSurcharge(t *testing.T) {
	offPeak := Quote(jfkLHR, spec(models.CargoGeneral, 5, "2026-02-15"))
	peak := Quote(jfkLHR, spec(models.CargoGeneral, 5, "2026-12-15"))
	if peak.PeakSeasonMultiplier != 1.15 {
		t.Fatalf("peak multiplier = %v, want 1.15", peak.PeakSeasonMultiplier)
	}
	wantDelta := offPeak.Total * 0.15
	if got := peak.Total - offPeak.Total; got != wantDelta {
		t.Fatalf("peak delta = %v, want %v (15%% of pre-surcharge amount)", got, wantDelta)
	}
}

func TestPeakMonths(t *testing.T) {
	cases := map[string]bool{
		"2026-06-01": true,
		"2026-07-20": true,
		"2026-08-31": true,
		"2026-11-05": true,
		"2026-12-24": true,
		"2026-01-10": false,
		"2026-02-15": false,
		"2026-05-30": false,
		"2026-09-01": false,
		"2026-10-31": false,
	}
	for date, peak := range cases {
		bd := Quote(jfkLHR, spec(models.CargoGeneral, 1, date))
		if got := bd.PeakSeasonMultiplier > 1; got != peak {
			t.Errorf("date %s: peak = %v, want %v", date, got, peak)
		}
	}
}

func TestCargoMultiplierOrdering(t *testing.T) {
	order := []models.CargoType{
		models.CargoGeneral,
		models.CargoPerishable,
		models.CargoVehicles,
		models.CargoHazardous,
		models.CargoLivestock,
	}
	prev := 0.0
	for _, ct := range order {
		bd := Quote(jfkLHR, spec(ct, 5, "2026-03-15"))
		if bd.Total <= prev {
			t.Fatalf("%s priced %v, not above previous %v", ct, bd.Total, prev)
		}
		prev = bd.Total
	}
}

func TestVolumeSurcharge(t *testing.T) {
	s := spec(models.CargoGeneral, 10, "2026-03-15")

	// Dense cargo: volume below the low-density threshold, no surcharge.
	dense := 50.0
	s.VolumeM3 = &dense
	if bd := Quote(jfkLHR, s); bd.VolumeSurcharge != 0 {
		t.Fatalf("dense cargo got volume surcharge %v", bd.VolumeSurcharge)
	}

	// Bulky cargo: 80 m3 for 10 t -> volumetric 13360 kg beats 10000 kg.
	bulky := 80.0
	s.VolumeM3 = &bulky
	bd := Quote(jfkLHR, s)
	want := (80*167 - 10000) * 2.50 * 0.5
	if bd.VolumeSurcharge != want {
		t.Fatalf("volume surcharge = %v, want %v", bd.VolumeSurcharge, want)
	}
	if bd.Total != bd.BaseCost+bd.VolumeSurcharge {
		t.Fatalf("total %v does not equal base %v + surcharge %v", bd.Total, bd.BaseCost, bd.VolumeSurcharge)
	}

	// No declared volume, no surcharge.
	s.VolumeM3 = nil
	if bd := Quote(jfkLHR, s); bd.VolumeSurcharge != 0 {
		t.Fatalf("missing volume got surcharge %v", bd.VolumeSurcharge)
	}
}

func TestRounding(t *testing.T) {
	route := models.Route{Origin: "DXB", Destination: "BOM", BasePricePerKg: 1.9, TransitDays: 1}
	bd := Quote(route, spec(models.CargoPerishable, 0.333, "2026-04-01"))
	if got := math.Round(bd.Total*100) / 100; got != bd.Total {
		t.Fatalf("total %v not rounded to cents", bd.Total)
	}
	if got := math.Round(bd.CargoSurcharge*100) / 100; got != bd.CargoSurcharge {
		t.Fatalf("cargo surcharge %v not rounded to cents", bd.CargoSurcharge)
	}
}
