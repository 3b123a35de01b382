package models

import "encoding/json"

// Intent is the user's high-level goal for a turn.
type Intent string

const (
	IntentQuote    Intent = "quote"
	IntentBook     Intent = "book"
	IntentCancel   Intent = "cancel"
	IntentTrack    Intent = "track"
	IntentGreeting Intent = "greeting"
	IntentUnknown  Intent = "unknown"
)

// Mutating reports whether executing the intent writes to the booking store.
func (i Intent) Mutating() bool {
	return i == IntentBook || i == IntentCancel
}

// SlotValue is a raw extracted slot value. The extractor returns loosely
// typed JSON, so any scalar is accepted and kept in string form; values of
// unusable shape (objects, arrays) are dropped rather than merged.
type SlotValue struct {
	Set   bool
	Value string
}

func (v *SlotValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "" {
			v.Set, v.Value = true, s
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		v.Set, v.Value = true, n.String()
		return nil
	}
	return nil
}

func (v SlotValue) MarshalJSON() ([]byte, error) {
	if !v.Set {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

// RawSlots carries the unvalidated slot values from a single extraction.
// Only the enumerated fields exist; anything else the model invents is
// discarded at decode time.
type RawSlots struct {
	Origin       SlotValue `json:"origin"`
	Destination  SlotValue `json:"destination"`
	Weight       SlotValue `json:"weight"`
	Volume       SlotValue `json:"volume"`
	CargoType    SlotValue `json:"cargo_type"`
	ShippingDate SlotValue `json:"shipping_date"`
	BookingID    SlotValue `json:"booking_id"`
}

// Extraction is the structured result of one slot-extractor call.
type Extraction struct {
	Intent           Intent             `json:"intent"`
	IntentConfidence float64            `json:"intent_confidence"`
	Slots            RawSlots           `json:"slots"`
	SlotConfidence   map[string]float64 `json:"slot_confidence,omitempty"`
	MissingSlots     []string           `json:"missing_slots,omitempty"`
	Clarification    string             `json:"clarification_question,omitempty"`
}
