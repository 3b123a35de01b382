// Package validation holds the pure normalizers that gate every slot value
// before it reaches the accumulated session state or the pricing engine.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cargoassist/models"
)

const (
	MinWeightTonnes = 0.1
	MaxWeightTonnes = 100.0
	MaxVolumeM3     = 1000.0
	MaxLeadDays     = 365
)

// FieldError is a user-correctable validation failure on a single slot.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// locationCodes maps common city names to IATA codes. Three-letter inputs
// pass through uppercased.
var locationCodes = map[string]string{
	"new york":    "JFK",
	"nyc":         "JFK",
	"los angeles": "LAX",
	"la":          "LAX",
	"chicago":     "ORD",
	"dallas":      "DFW",
	"atlanta":     "ATL",
	"london":      "LHR",
	"paris":       "CDG",
	"frankfurt":   "FRA",
	"tokyo":       "NRT",
	"hong kong":   "HKG",
	"sydney":      "SYD",
	"dubai":       "DXB",
	"mumbai":      "BOM",
	"singapore":   "SIN",
	"shanghai":    "PVG",
}

var iataCode = regexp.MustCompile(`^[A-Za-z]{3}$`)

// Location normalizes a city name or airport code to an uppercase IATA code.
func Location(field, raw string) (string, *FieldError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fieldErr(field, "location cannot be empty")
	}
	if iataCode.MatchString(trimmed) {
		return strings.ToUpper(trimmed), nil
	}
	if code, ok := locationCodes[strings.ToLower(trimmed)]; ok {
		return code, nil
	}
	return "", fieldErr(field, "unknown location %q, provide a city name or 3-letter airport code", raw)
}

// Weight parses and range-checks a weight in tonnes.
func Weight(raw string) (float64, *FieldError) {
	w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		// ParseFloat accepts "NaN" and "Inf", and NaN passes every range
		// comparison, so both have to be rejected explicitly.
		return 0, fieldErr("weight", "%q is not a number", raw)
	}
	if w < MinWeightTonnes {
		return 0, fieldErr("weight", "minimum weight is %.1f tonnes (100 kg)", MinWeightTonnes)
	}
	if w > MaxWeightTonnes {
		return 0, fieldErr("weight", "maximum weight is %.0f tonnes, contact us for larger shipments", MaxWeightTonnes)
	}
	return w, nil
}

// Volume parses and range-checks an optional volume in cubic meters.
func Volume(raw string) (float64, *FieldError) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fieldErr("volume", "%q is not a number", raw)
	}
	if v <= 0 {
		return 0, fieldErr("volume", "volume must be greater than 0")
	}
	if v > MaxVolumeM3 {
		return 0, fieldErr("volume", "maximum volume is %.0f cubic meters", MaxVolumeM3)
	}
	return v, nil
}

// ShippingDate checks a "YYYY-MM-DD" date: strictly after today and at most
// MaxLeadDays out. The caller supplies the clock so tests stay deterministic.
func ShippingDate(raw string, now time.Time) (string, *FieldError) {
	trimmed := strings.TrimSpace(raw)
	d, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return "", fieldErr("shipping_date", "invalid date %q, use YYYY-MM-DD", raw)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !d.After(today) {
		return "", fieldErr("shipping_date", "shipping date must be in the future")
	}
	if d.After(today.AddDate(0, 0, MaxLeadDays)) {
		return "", fieldErr("shipping_date", "shipping date must be within %d days from today", MaxLeadDays)
	}
	return trimmed, nil
}

// CargoType normalizes a cargo type against the enumerated set. Unknown
// values are rejected, never guessed.
func CargoType(raw string) (models.CargoType, *FieldError) {
	normalized := models.CargoType(strings.ToLower(strings.TrimSpace(raw)))
	for _, ct := range models.CargoTypes {
		if normalized == ct {
			return ct, nil
		}
	}
	names := make([]string, len(models.CargoTypes))
	for i, ct := range models.CargoTypes {
		names[i] = string(ct)
	}
	return "", fieldErr("cargo_type", "invalid cargo type %q, valid types are: %s", raw, strings.Join(names, ", "))
}

var bookingID = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)

// BookingID normalizes a booking reference to its canonical uppercase form.
// New ids are CRG + 8 alphanumeric; older 6-12 character references are
// still accepted for lookups.
func BookingID(raw string) (string, *FieldError) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !bookingID.MatchString(normalized) {
		return "", fieldErr("booking_id", "invalid booking reference %q", raw)
	}
	return normalized, nil
}

// RoutePair rejects degenerate routes before any store lookup.
func RoutePair(origin, destination string) *FieldError {
	if origin == destination {
		return fieldErr("destination", "origin and destination cannot be the same")
	}
	return nil
}
