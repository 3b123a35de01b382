package dialogue

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	bookingrepo "cargoassist/database/repository/booking"
	routerepo "cargoassist/database/repository/route"
	"cargoassist/models"
)

var testNow = time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

// --- Fakes ---

type fakeRouteRepo struct {
	routes map[string]models.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: map[string]models.Route{
		"JFK-LHR": {Origin: "JFK", Destination: "LHR", BasePricePerKg: 2.50, TransitDays: 1},
		"LAX-NRT": {Origin: "LAX", Destination: "NRT", BasePricePerKg: 3.80, TransitDays: 2},
	}}
}

func (f *fakeRouteRepo) FindRoute(_ context.Context, origin, destination string) (*models.Route, error) {
	r, ok := f.routes[origin+"-"+destination]
	if !ok {
		return nil, routerepo.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRouteRepo) ListRoutes(_ context.Context) ([]models.Route, error) {
	var out []models.Route
	for _, r := range f.routes {
		out = append(out, r)
	}
	return out, nil
}

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
	creates  int
	updates  int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*models.Booking{}}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	f.creates++
	b.CreatedAt = testNow
	b.UpdatedAt = testNow
	copied := *b
	f.bookings[b.BookingID] = &copied
	return nil
}

func (f *fakeBookingRepo) FindByBookingID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[strings.ToUpper(id)]
	if !ok {
		return nil, bookingrepo.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id string, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error) {
	b, ok := f.bookings[strings.ToUpper(id)]
	if !ok {
		return nil, bookingrepo.ErrNotFound
	}
	allowed := false
	for _, s := range from {
		if b.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return nil, bookingrepo.ErrConflict
	}
	f.updates++
	b.Status = to
	b.UpdatedAt = testNow
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) List(_ context.Context, _ models.BookingStatus, _ int64) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ArchiveCancelledBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// --- Helpers ---

func newTestMachine(routes *fakeRouteRepo, bookings *fakeBookingRepo) *Machine {
	m := NewMachine(routes, bookings, 0.6)
	m.Now = func() time.Time { return testNow }
	return m
}

func sv(v string) models.SlotValue { return models.SlotValue{Set: true, Value: v} }

func extraction(intent models.Intent, slots models.RawSlots) *models.Extraction {
	return &models.Extraction{Intent: intent, IntentConfidence: 0.95, Slots: slots}
}

func fullShipmentSlots() models.RawSlots {
	return models.RawSlots{
		Origin:       sv("JFK"),
		Destination:  sv("LHR"),
		Weight:       sv("5"),
		CargoType:    sv("general"),
		ShippingDate: sv("2026-02-15"),
	}
}

// --- Tests ---

func TestQuoteScenario(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}

	res := m.Turn(context.Background(), session, "quote JFK to LHR, 5 tonnes general, 2026-02-15",
		extraction(models.IntentQuote, fullShipmentSlots()), nil)

	if res.Outcome != models.OutcomeQuoted {
		t.Fatalf("outcome = %v (%s), want quoted", res.Outcome, res.Response)
	}
	if price := res.Data["price"].(float64); price != 12500.00 {
		t.Fatalf("price = %v, want 12500.00", price)
	}
	if days := res.Data["transit_days"].(int); days != 1 {
		t.Fatalf("transit_days = %v, want 1", days)
	}
	if session.Pending != nil {
		t.Fatal("quote opened a confirmation; quotes are non-mutating")
	}
}

func TestQuoteSlotAccumulationAcrossTurns(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}
	ctx := context.Background()

	res := m.Turn(ctx, session, "I want a quote from JFK to LHR", extraction(models.IntentQuote, models.RawSlots{
		Origin:      sv("JFK"),
		Destination: sv("LHR"),
	}), nil)
	if res.Outcome != models.OutcomeClarifying {
		t.Fatalf("outcome = %v, want clarifying", res.Outcome)
	}
	for _, want := range []string{"weight", "cargo_type", "shipping_date"} {
		if !strings.Contains(res.Response, want) {
			t.Errorf("clarification %q does not name %s", res.Response, want)
		}
	}
	if strings.Contains(res.Response, "origin") {
		t.Errorf("clarification %q names a slot that is already filled", res.Response)
	}

	// Follow-up turn with unknown intent carries the quote forward.
	res = m.Turn(ctx, session, "5 tonnes of general cargo on 2026-02-15", extraction(models.IntentUnknown, models.RawSlots{
		Weight:       sv("5"),
		CargoType:    sv("general"),
		ShippingDate: sv("2026-02-15"),
	}), nil)
	if res.Outcome != models.OutcomeQuoted {
		t.Fatalf("outcome = %v (%s), want quoted after accumulation", res.Outcome, res.Response)
	}
}

func TestInvalidSlotNeverOverwritesValid(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}
	ctx := context.Background()

	m.Turn(ctx, session, "5 tonnes", extraction(models.IntentQuote, models.RawSlots{Weight: sv("5")}), nil)
	if session.Slots.WeightTonnes == nil || *session.Slots.WeightTonnes != 5 {
		t.Fatalf("weight not accumulated: %+v", session.Slots)
	}

	res := m.Turn(ctx, session, "make that abc tonnes", extraction(models.IntentQuote, models.RawSlots{Weight: sv("abc")}), nil)
	if *session.Slots.WeightTonnes != 5 {
		t.Fatalf("weight = %v, invalid value overwrote valid one", *session.Slots.WeightTonnes)
	}
	if res.Outcome != models.OutcomeClarifying || !strings.Contains(res.Response, "weight") {
		t.Fatalf("expected clarification naming weight, got %v: %s", res.Outcome, res.Response)
	}
}

func TestLowConfidenceSlotTreatedAsMissing(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}
	ext := extraction(models.IntentQuote, models.RawSlots{Origin: sv("JFK"), Destination: sv("LHR")})
	ext.SlotConfidence = map[string]float64{"destination": 0.2}

	m.Turn(context.Background(), session, "from JFK, maybe to london?", ext, nil)
	if session.Slots.Destination != "" {
		t.Fatalf("low-confidence destination %q was merged", session.Slots.Destination)
	}
	if session.Slots.Origin != "JFK" {
		t.Fatalf("confident origin not merged: %+v", session.Slots)
	}
}

var bookingIDPattern = regexp.MustCompile(`^CRG[A-Z0-9]{8}$`)

func TestBookConfirmationRoundTrip(t *testing.T) {
	routes := newFakeRouteRepo()
	bookings := newFakeBookingRepo()
	m := newTestMachine(routes, bookings)
	session := &models.Session{SessionID: "s1"}
	ctx := context.Background()

	res := m.Turn(ctx, session, "book it", extraction(models.IntentBook, fullShipmentSlots()), nil)
	if res.Outcome != models.OutcomeConfirming {
		t.Fatalf("outcome = %v (%s), want confirming", res.Outcome, res.Response)
	}
	if bookings.creates != 0 {
		t.Fatal("store mutated before confirmation")
	}
	if session.Pending == nil || session.Pending.Action != models.ActionBook {
		t.Fatalf("no book confirmation pending: %+v", session.Pending)
	}
	if session.Pending.Price != 12500.00 {
		t.Fatalf("pending price = %v, want 12500.00", session.Pending.Price)
	}

	res = m.Turn(ctx, session, "yes", nil, nil)
	if res.Outcome != models.OutcomeBooked {
		t.Fatalf("outcome = %v (%s), want booked", res.Outcome, res.Response)
	}
	if bookings.creates != 1 {
		t.Fatalf("creates = %d, want exactly one", bookings.creates)
	}
	id := res.Data["booking_id"].(string)
	if !bookingIDPattern.MatchString(id) {
		t.Fatalf("booking id %q does not match CRG[A-Z0-9]{8}", id)
	}
	created := bookings.bookings[id]
	if created.Status != models.StatusConfirmed {
		t.Fatalf("created status = %v, want confirmed", created.Status)
	}
	if session.Pending != nil {
		t.Fatal("pending confirmation not consumed after execution")
	}
	if session.Slots.Origin != "" || session.Slots.WeightTonnes != nil {
		t.Fatalf("shipment slots not cleared after booking: %+v", session.Slots)
	}
	if session.Slots.BookingID != id {
		t.Fatalf("session booking_id = %q, want %q for follow-up tracking", session.Slots.BookingID, id)
	}
}

func TestAmbiguousReplyLeavesEverythingUntouched(t *testing.T) {
	bookings := newFakeBookingRepo()
	m := newTestMachine(newFakeRouteRepo(), bookings)
	session := &models.Session{SessionID: "s1"}
	ctx := context.Background()

	m.Turn(ctx, session, "book it", extraction(models.IntentBook, fullShipmentSlots()), nil)
	before := *session.Pending

	res := m.Turn(ctx, session, "hmm, what about insurance?", nil, nil)
	if res.Outcome != models.OutcomeConfirming {
		t.Fatalf("outcome = %v, want confirming re-prompt", res.Outcome)
	}
	if bookings.creates != 0 || bookings.updates != 0 {
		t.Fatal("ambiguous reply mutated the store")
	}
	if session.Pending == nil || *session.Pending != before {
		t.Fatalf("pending confirmation changed on ambiguous reply: %+v", session.Pending)
	}

	// A new intent mid-confirmation cannot bypass the gate either.
	res = m.Turn(ctx, session, "actually book 10 tonnes to tokyo", nil, nil)
	if res.Outcome != models.OutcomeConfirming || bookings.creates != 0 {
		t.Fatalf("mid-confirmation intent bypassed the gate: %v", res.Outcome)
	}
}

func TestNegativeReplyDiscardsActionKeepsSlots(t *testing.T) {
	bookings := newFakeBookingRepo()
	m := newTestMachine(newFakeRouteRepo(), bookings)
	session := &models.Session{SessionID: "s1"}
	ctx := context.Background()

	m.Turn(ctx, session, "book it", extraction(models.IntentBook, fullShipmentSlots()), nil)
	res := m.Turn(ctx, session, "no, hold on", nil, nil)

	if session.Pending != nil {
		t.Fatal("pending confirmation not discarded on rejection")
	}
	if bookings.creates != 0 {
		t.Fatal("rejected confirmation still mutated the store")
	}
	if session.Slots.Origin != "JFK" || session.Slots.WeightTonnes == nil {
		t.Fatalf("accumulated slots lost on rejection: %+v", session.Slots)
	}
	if res.Outcome != models.OutcomeClarifying {
		t.Fatalf("outcome = %v, want clarifying", res.Outcome)
	}
}

func TestCancelFlow(t *testing.T) {
	bookings := newFakeBookingRepo()
	bookings.bookings["CRG1A2B3C4D"] = &models.Booking{
		BookingID: "CRG1A2B3C4D", Origin: "JFK", Destination: "LHR",
		WeightTonnes: 5, CargoType: models.CargoGeneral,
		ShippingDate: "2026-02-15", Price: 12500, Status: models.StatusConfirmed,
	}
	m := newTestMachine(newFakeRouteRepo(), bookings)
	session := &models.Session{SessionID: "s1"}
	ctx := context.Background()

	res := m.Turn(ctx, session, "cancel CRG1A2B3C4D",
		extraction(models.IntentCancel, models.RawSlots{BookingID: sv("CRG1A2B3C4D")}), nil)
	if res.Outcome != models.OutcomeConfirming {
		t.Fatalf("outcome = %v (%s), want confirming", res.Outcome, res.Response)
	}
	if bookings.updates != 0 {
		t.Fatal("store mutated before cancel confirmation")
	}

	res = m.Turn(ctx, session, "yes", nil, nil)
	if res.Outcome != models.OutcomeCancelled {
		t.Fatalf("outcome = %v (%s), want cancelled", res.Outcome, res.Response)
	}
	if got := bookings.bookings["CRG1A2B3C4D"].Status; got != models.StatusCancelled {
		t.Fatalf("status = %v, want cancelled", got)
	}
	if bookings.updates != 1 {
		t.Fatalf("updates = %d, want exactly one", bookings.updates)
	}
}

func TestCancelAlreadyCancelledIsConflict(t *testing.T) {
	bookings := newFakeBookingRepo()
	bookings.bookings["CRG1A2B3C4D"] = &models.Booking{
		BookingID: "CRG1A2B3C4D", Status: models.StatusCancelled,
	}
	m := newTestMachine(newFakeRouteRepo(), bookings)
	session := &models.Session{SessionID: "s1"}

	res := m.Turn(context.Background(), session, "cancel CRG1A2B3C4D",
		extraction(models.IntentCancel, models.RawSlots{BookingID: sv("CRG1A2B3C4D")}), nil)

	if res.Outcome != models.OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", res.Outcome)
	}
	if session.Pending != nil {
		t.Fatal("confirmation opened for an ineligible cancellation")
	}
	if bookings.updates != 0 {
		t.Fatal("already-cancelled booking was written")
	}
}

func TestTrackIsReadOnly(t *testing.T) {
	bookings := newFakeBookingRepo()
	bookings.bookings["CRG1A2B3C4D"] = &models.Booking{
		BookingID: "CRG1A2B3C4D", Origin: "JFK", Destination: "LHR",
		WeightTonnes: 5, CargoType: models.CargoGeneral,
		ShippingDate: "2026-02-15", Price: 12500, Status: models.StatusConfirmed,
	}
	m := newTestMachine(newFakeRouteRepo(), bookings)
	session := &models.Session{SessionID: "s1"}

	res := m.Turn(context.Background(), session, "where is CRG1A2B3C4D",
		extraction(models.IntentTrack, models.RawSlots{BookingID: sv("CRG1A2B3C4D")}), nil)

	if res.Outcome != models.OutcomeTracked {
		t.Fatalf("outcome = %v (%s), want tracked", res.Outcome, res.Response)
	}
	if !strings.Contains(res.Response, "confirmed") {
		t.Fatalf("track reply %q does not report status", res.Response)
	}
	if session.Pending != nil || bookings.updates != 0 || bookings.creates != 0 {
		t.Fatal("tracking touched state it must not")
	}
}

func TestExtractorDownKeepsState(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}
	ctx := context.Background()

	m.Turn(ctx, session, "5 tonnes from JFK", extraction(models.IntentQuote, models.RawSlots{
		Origin: sv("JFK"), Weight: sv("5"),
	}), nil)
	before := session.Slots

	res := m.Turn(ctx, session, "garbled", nil, context.DeadlineExceeded)
	if res.Outcome != models.OutcomeClarifying {
		t.Fatalf("outcome = %v, want clarifying on extractor failure", res.Outcome)
	}
	if session.Slots != before {
		t.Fatalf("slots changed on extractor failure: %+v", session.Slots)
	}
}

func TestUnknownRoute(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}
	slots := fullShipmentSlots()
	slots.Destination = sv("SYD")

	res := m.Turn(context.Background(), session, "quote JFK to SYD", extraction(models.IntentQuote, slots), nil)
	if res.Outcome != models.OutcomeFailed || !strings.Contains(res.Response, "No route") {
		t.Fatalf("outcome = %v (%s), want no-route failure", res.Outcome, res.Response)
	}
}

func TestNaNWeightNeverReachesPricing(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}
	slots := fullShipmentSlots()
	slots.Weight = sv("NaN")

	res := m.Turn(context.Background(), session, "quote JFK to LHR, NaN tonnes general, 2026-02-15",
		extraction(models.IntentQuote, slots), nil)

	if session.Slots.WeightTonnes != nil {
		t.Fatalf("weight = %v, NaN merged as valid", *session.Slots.WeightTonnes)
	}
	if res.Outcome != models.OutcomeClarifying || !strings.Contains(res.Response, "weight") {
		t.Fatalf("outcome = %v (%s), want clarification naming weight", res.Outcome, res.Response)
	}
	if strings.Contains(res.Response, "$NaN") {
		t.Fatalf("response leaked NaN into a price: %s", res.Response)
	}
}

func TestUnreportedIntentConfidenceNotTrusted(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}
	ext := extraction(models.IntentBook, fullShipmentSlots())
	ext.IntentConfidence = 0 // extractor did not report one

	res := m.Turn(context.Background(), session, "book it", ext, nil)
	if session.Pending != nil {
		t.Fatal("book intent without a reported confidence opened a confirmation")
	}
	if res.Outcome != models.OutcomeClarifying {
		t.Fatalf("outcome = %v, want clarifying", res.Outcome)
	}
}

func TestLowConfidenceIntentTreatedAsUnknown(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}
	ext := extraction(models.IntentBook, fullShipmentSlots())
	ext.IntentConfidence = 0.3

	res := m.Turn(context.Background(), session, "mumble", ext, nil)
	if session.Pending != nil {
		t.Fatal("low-confidence book intent opened a confirmation")
	}
	if res.Outcome != models.OutcomeClarifying {
		t.Fatalf("outcome = %v, want clarifying", res.Outcome)
	}
}

func TestGreeting(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}

	res := m.Turn(context.Background(), session, "hi there", extraction(models.IntentGreeting, models.RawSlots{}), nil)
	if res.Outcome != models.OutcomeGreeted {
		t.Fatalf("outcome = %v, want greeted", res.Outcome)
	}
}

func TestSameOriginAndDestination(t *testing.T) {
	m := newTestMachine(newFakeRouteRepo(), newFakeBookingRepo())
	session := &models.Session{SessionID: "s1"}
	slots := fullShipmentSlots()
	slots.Destination = sv("JFK")

	res := m.Turn(context.Background(), session, "quote JFK to JFK", extraction(models.IntentQuote, slots), nil)
	if res.Outcome != models.OutcomeClarifying {
		t.Fatalf("outcome = %v, want clarifying for degenerate route", res.Outcome)
	}
}
