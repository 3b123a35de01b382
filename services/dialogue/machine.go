// Package dialogue implements the slot-accumulation and confirmation state
// machine between the slot extractor and the deterministic booking engine.
// Nothing the extractor returns can reach the pricing engine or the booking
// store except validated slot values; price and eligibility are always
// recomputed here.
package dialogue

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	bookingrepo "cargoassist/database/repository/booking"
	routerepo "cargoassist/database/repository/route"
	"cargoassist/models"
	"cargoassist/services/pricing"
	"cargoassist/services/validation"
)

// DefaultConfidenceThreshold gates extractor output: anything below it is
// treated as missing rather than merged.
const DefaultConfidenceThreshold = 0.6

// State is the session's position in the dialogue flow, derived from the
// round-tripped session object.
type State string

const (
	StateCollecting           State = "collecting"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

// StateOf reports the current dialogue state for a session.
func StateOf(session *models.Session) State {
	if session.Pending != nil {
		return StateAwaitingConfirmation
	}
	return StateCollecting
}

// Machine drives one conversation turn. Dependencies are injected; the
// machine itself performs no blocking I/O beyond the injected store calls
// and holds no state between turns.
type Machine struct {
	Routes              routerepo.Repository
	Bookings            bookingrepo.Repository
	ConfidenceThreshold float64
	Now                 func() time.Time
}

func NewMachine(routes routerepo.Repository, bookings bookingrepo.Repository, threshold float64) *Machine {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Machine{
		Routes:              routes,
		Bookings:            bookings,
		ConfidenceThreshold: threshold,
		Now:                 time.Now,
	}
}

// NewBookingID mints an external booking reference: CRG plus 8 uppercase
// hex characters.
func NewBookingID() string {
	u := uuid.New()
	return "CRG" + strings.ToUpper(hex.EncodeToString(u[:4]))
}

func result(intent models.Intent, outcome models.Outcome, response string) models.TurnResult {
	return models.TurnResult{Response: response, Intent: intent, Outcome: outcome}
}

// Turn runs the per-turn algorithm. A pending confirmation always intercepts
// the utterance first, so a new intent can never bypass an open gate. The
// extraction result (or its error) is interpreted only afterwards.
func (m *Machine) Turn(ctx context.Context, session *models.Session, utterance string, ext *models.Extraction, extractErr error) models.TurnResult {
	if session.Pending != nil {
		return m.resolvePending(ctx, session, utterance)
	}

	if extractErr != nil || ext == nil {
		// Transient extractor failure: keep all accumulated state and ask
		// the user to rephrase.
		return result(models.IntentUnknown, models.OutcomeClarifying, rephraseReply)
	}

	// An extraction that omits intent_confidence decodes as 0 and is gated
	// like any other low-confidence guess.
	intent := ext.Intent
	if ext.IntentConfidence < m.ConfidenceThreshold {
		intent = models.IntentUnknown
	}

	invalid := m.mergeSlots(session, ext)

	switch intent {
	case models.IntentQuote, models.IntentBook, models.IntentCancel, models.IntentTrack:
		session.ActiveIntent = intent
	case models.IntentGreeting:
		if session.ActiveIntent == "" && len(invalid) == 0 {
			return result(models.IntentGreeting, models.OutcomeGreeted, greetingReply)
		}
		intent = session.ActiveIntent
	default:
		// The user is answering a follow-up question; continue the intent
		// already in flight.
		intent = session.ActiveIntent
	}

	switch intent {
	case models.IntentQuote, models.IntentBook:
		return m.handleShipment(ctx, session, intent, invalid)
	case models.IntentCancel:
		return m.handleCancel(ctx, session, invalid)
	case models.IntentTrack:
		return m.handleTrack(ctx, session, invalid)
	default:
		if len(invalid) > 0 {
			return result(models.IntentUnknown, models.OutcomeClarifying, clarificationReply(nil, invalid))
		}
		return result(models.IntentUnknown, models.OutcomeClarifying, helpReply)
	}
}

// handleShipment covers quote and book: both need the full shipment slot
// set and a priced route; only book opens a confirmation.
func (m *Machine) handleShipment(ctx context.Context, session *models.Session, intent models.Intent, invalid []*validation.FieldError) models.TurnResult {
	slots := &session.Slots
	missing := missingSlots(intent, slots)
	if len(missing) > 0 || len(invalid) > 0 {
		return result(intent, models.OutcomeClarifying, clarificationReply(missing, invalid))
	}
	if fe := validation.RoutePair(slots.Origin, slots.Destination); fe != nil {
		return result(intent, models.OutcomeClarifying, clarificationReply(nil, []*validation.FieldError{fe}))
	}

	rt, err := m.Routes.FindRoute(ctx, slots.Origin, slots.Destination)
	if errors.Is(err, routerepo.ErrNotFound) {
		return result(intent, models.OutcomeFailed, noRouteReply(slots.Origin, slots.Destination))
	}
	if err != nil {
		return result(intent, models.OutcomeFailed, failureReply)
	}

	spec := models.CargoSpec{
		CargoType:    models.CargoType(slots.CargoType),
		WeightTonnes: *slots.WeightTonnes,
		VolumeM3:     slots.VolumeM3,
		ShippingDate: slots.ShippingDate,
	}
	bd := pricing.Quote(*rt, spec)

	if intent == models.IntentQuote {
		res := result(intent, models.OutcomeQuoted, quoteReply(slots.Origin, slots.Destination, &spec, bd, rt.TransitDays))
		res.Data = map[string]any{
			"price":        bd.Total,
			"transit_days": rt.TransitDays,
			"breakdown":    bd,
		}
		return res
	}

	pending := models.PendingConfirmation{
		Action:      models.ActionBook,
		Origin:      slots.Origin,
		Destination: slots.Destination,
		Spec:        &spec,
		Price:       bd.Total,
		TransitDays: rt.TransitDays,
		CreatedAt:   m.Now(),
	}
	if err := OpenConfirmation(session, pending); err != nil {
		return result(intent, models.OutcomeFailed, failureReply)
	}
	res := result(intent, models.OutcomeConfirming, confirmationPrompt(session.Pending))
	res.Data = map[string]any{"price": bd.Total}
	return res
}

func (m *Machine) handleCancel(ctx context.Context, session *models.Session, invalid []*validation.FieldError) models.TurnResult {
	slots := &session.Slots
	missing := missingSlots(models.IntentCancel, slots)
	if len(missing) > 0 || len(invalid) > 0 {
		return result(models.IntentCancel, models.OutcomeClarifying, clarificationReply(missing, invalid))
	}

	// Check eligibility before opening a confirmation: a booking that is
	// already cancelled or archived gets an error, never a gate.
	b, err := m.Bookings.FindByBookingID(ctx, slots.BookingID)
	if errors.Is(err, bookingrepo.ErrNotFound) {
		return result(models.IntentCancel, models.OutcomeFailed, "I couldn't find booking "+slots.BookingID+".")
	}
	if err != nil {
		return result(models.IntentCancel, models.OutcomeFailed, failureReply)
	}
	if b.Status == models.StatusCancelled || b.Status == models.StatusArchived {
		return result(models.IntentCancel, models.OutcomeFailed,
			"Booking "+b.BookingID+" is already "+string(b.Status)+" and cannot be cancelled.")
	}

	pending := models.PendingConfirmation{
		Action:    models.ActionCancel,
		BookingID: b.BookingID,
		Price:     b.Price,
		CreatedAt: m.Now(),
	}
	if err := OpenConfirmation(session, pending); err != nil {
		return result(models.IntentCancel, models.OutcomeFailed, failureReply)
	}
	return result(models.IntentCancel, models.OutcomeConfirming, confirmationPrompt(session.Pending))
}

func (m *Machine) handleTrack(ctx context.Context, session *models.Session, invalid []*validation.FieldError) models.TurnResult {
	slots := &session.Slots
	missing := missingSlots(models.IntentTrack, slots)
	if len(missing) > 0 || len(invalid) > 0 {
		return result(models.IntentTrack, models.OutcomeClarifying, clarificationReply(missing, invalid))
	}

	b, err := m.Bookings.FindByBookingID(ctx, slots.BookingID)
	if errors.Is(err, bookingrepo.ErrNotFound) {
		return result(models.IntentTrack, models.OutcomeFailed, "I couldn't find booking "+slots.BookingID+".")
	}
	if err != nil {
		return result(models.IntentTrack, models.OutcomeFailed, failureReply)
	}

	session.ActiveIntent = ""
	res := result(models.IntentTrack, models.OutcomeTracked, trackReply(b))
	res.Data = map[string]any{"booking": b}
	return res
}

// resolvePending interprets the turn as a reply to the open confirmation.
func (m *Machine) resolvePending(ctx context.Context, session *models.Session, utterance string) models.TurnResult {
	pending := session.Pending
	intent := models.IntentBook
	if pending.Action == models.ActionCancel {
		intent = models.IntentCancel
	}

	switch ResolveConfirmation(utterance) {
	case Rejected:
		session.Pending = nil
		return result(intent, models.OutcomeClarifying, declinedReply(pending.Action))
	case Accepted:
		return m.executePending(ctx, session, intent)
	default:
		// Neither a yes nor a no: keep the gate exactly as it is and ask
		// again. Indecision never executes the action.
		return result(intent, models.OutcomeConfirming,
			"Sorry, I need a clear yes or no. "+confirmationPrompt(pending))
	}
}

// executePending runs the confirmed action exactly once. The gate is
// cleared on any definitive outcome; only a transient store failure keeps
// it open so the user can retry without re-stating everything.
func (m *Machine) executePending(ctx context.Context, session *models.Session, intent models.Intent) models.TurnResult {
	pending := session.Pending

	switch pending.Action {
	case models.ActionBook:
		b := &models.Booking{
			BookingID:    NewBookingID(),
			Origin:       pending.Origin,
			Destination:  pending.Destination,
			WeightTonnes: pending.Spec.WeightTonnes,
			VolumeM3:     pending.Spec.VolumeM3,
			CargoType:    pending.Spec.CargoType,
			ShippingDate: pending.Spec.ShippingDate,
			Price:        pending.Price,
			Status:       models.StatusConfirmed,
		}
		if err := m.Bookings.Create(ctx, b); err != nil {
			return result(intent, models.OutcomeFailed, failureReply)
		}
		session.Pending = nil
		session.Slots.ClearShipment()
		session.Slots.BookingID = b.BookingID
		session.ActiveIntent = ""
		res := result(intent, models.OutcomeBooked, bookedReply(b))
		res.Data = map[string]any{"booking_id": b.BookingID, "price": b.Price, "status": b.Status}
		return res

	case models.ActionCancel:
		allowed := []models.BookingStatus{models.StatusPending, models.StatusConfirmed}
		_, err := m.Bookings.UpdateStatus(ctx, pending.BookingID, allowed, models.StatusCancelled)
		switch {
		case errors.Is(err, bookingrepo.ErrNotFound):
			session.Pending = nil
			return result(intent, models.OutcomeFailed, "I couldn't find booking "+pending.BookingID+".")
		case errors.Is(err, bookingrepo.ErrConflict):
			// Another session got there first; the conditional update left
			// the record untouched.
			session.Pending = nil
			return result(intent, models.OutcomeFailed,
				"Booking "+pending.BookingID+" can no longer be cancelled.")
		case err != nil:
			return result(intent, models.OutcomeFailed, failureReply)
		}
		session.Pending = nil
		session.Slots.BookingID = ""
		session.ActiveIntent = ""
		return result(intent, models.OutcomeCancelled, cancelledReply(pending.BookingID))
	}

	session.Pending = nil
	return result(intent, models.OutcomeFailed, failureReply)
}
