package models

import "time"

// AccumulatedSlots holds the validated slot values gathered so far for one
// conversation session. A zero value means the slot is unset. Values only
// land here after passing validation; a later invalid extraction never
// overwrites an entry.
type AccumulatedSlots struct {
	Origin       string   `json:"origin,omitempty"`      // IATA code
	Destination  string   `json:"destination,omitempty"` // IATA code
	WeightTonnes *float64 `json:"weight,omitempty"`
	VolumeM3     *float64 `json:"volume,omitempty"`
	CargoType    string   `json:"cargo_type,omitempty"`
	ShippingDate string   `json:"shipping_date,omitempty"` // YYYY-MM-DD
	BookingID    string   `json:"booking_id,omitempty"`
}

// ClearShipment drops the slots tied to a completed quote/book transaction
// while leaving the rest of the session intact.
func (s *AccumulatedSlots) ClearShipment() {
	s.Origin = ""
	s.Destination = ""
	s.WeightTonnes = nil
	s.VolumeM3 = nil
	s.CargoType = ""
	s.ShippingDate = ""
}

// ConfirmAction is the kind of mutating action held behind a confirmation.
type ConfirmAction string

const (
	ActionBook   ConfirmAction = "book"
	ActionCancel ConfirmAction = "cancel"
)

// PendingConfirmation is a held, not-yet-executed mutating action awaiting
// explicit user consent. At most one exists per session; it is consumed on
// an affirmative or negative response and never applied twice.
type PendingConfirmation struct {
	Action      ConfirmAction `json:"action"`
	Origin      string        `json:"origin,omitempty"`
	Destination string        `json:"destination,omitempty"`
	Spec        *CargoSpec    `json:"spec,omitempty"`       // set for book
	BookingID   string        `json:"booking_id,omitempty"` // set for cancel
	Price       float64       `json:"price,omitempty"`
	TransitDays int           `json:"transit_days,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Session is the caller-supplied conversation state, round-tripped each turn.
// The server holds no session memory beyond the Redis history cache.
type Session struct {
	SessionID    string               `json:"session_id"`
	Slots        AccumulatedSlots     `json:"accumulated_slots"`
	Pending      *PendingConfirmation `json:"pending_confirmation,omitempty"`
	ActiveIntent Intent               `json:"active_intent,omitempty"` // carried across clarification turns
}

// ConversationTurn is one utterance in the session history.
type ConversationTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
