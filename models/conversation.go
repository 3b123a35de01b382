package models

import "time"

// Outcome tags the structured result of a conversation turn.
type Outcome string

const (
	OutcomeQuoted     Outcome = "quoted"
	OutcomeBooked     Outcome = "booked"
	OutcomeCancelled  Outcome = "cancelled"
	OutcomeTracked    Outcome = "tracked"
	OutcomeClarifying Outcome = "clarifying"
	OutcomeConfirming Outcome = "confirming"
	OutcomeGreeted    Outcome = "greeted"
	OutcomeFailed     Outcome = "failed"
)

// TurnResult is what the dialogue machine produces for one turn, alongside
// the mutated session.
type TurnResult struct {
	Response string         `json:"response"`
	Intent   Intent         `json:"intent"`
	Outcome  Outcome        `json:"outcome"`
	Data     map[string]any `json:"data,omitempty"`
}

// ConversationRequest is the /api/conversation payload. The caller
// round-trips accumulated slots and any pending confirmation each turn.
type ConversationRequest struct {
	SessionID           string               `json:"session_id"`
	Message             string               `json:"message" binding:"required"`
	AccumulatedSlots    *AccumulatedSlots    `json:"accumulated_slots,omitempty"`
	PendingConfirmation *PendingConfirmation `json:"pending_confirmation,omitempty"`
	ActiveIntent        Intent               `json:"active_intent,omitempty"`
}

// ConversationResponse returns the reply plus the updated session state.
type ConversationResponse struct {
	SessionID           string               `json:"session_id"`
	Response            string               `json:"response"`
	Intent              Intent               `json:"intent"`
	Outcome             Outcome              `json:"outcome"`
	AccumulatedSlots    AccumulatedSlots     `json:"accumulated_slots"`
	PendingConfirmation *PendingConfirmation `json:"pending_confirmation,omitempty"`
	ActiveIntent        Intent               `json:"active_intent,omitempty"`
	Data                map[string]any       `json:"data,omitempty"`
}

// AuditRecord is one persisted request-audit entry.
type AuditRecord struct {
	Endpoint  string    `bson:"endpoint" json:"endpoint"`
	Method    string    `bson:"method" json:"method"`
	Status    int       `bson:"status" json:"status"`
	LatencyMS float64   `bson:"latency_ms" json:"latency_ms"`
	ClientIP  string    `bson:"client_ip,omitempty" json:"client_ip,omitempty"`
	At        time.Time `bson:"at" json:"at"`
}
