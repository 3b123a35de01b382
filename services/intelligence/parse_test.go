package intelligence

import (
	"testing"

	"cargoassist/models"
)

func TestParseExtractionClean(t *testing.T) {
	raw := `{
		"intent": "quote",
		"intent_confidence": 0.92,
		"slots": {"origin": "JFK", "destination": "LHR", "weight": 5, "volume": null,
			"cargo_type": "general", "shipping_date": "2026-02-15", "booking_id": null},
		"slot_confidence": {"origin": 0.99, "weight": 0.9}
	}`
	ext, err := parseExtraction(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ext.Intent != models.IntentQuote || ext.IntentConfidence != 0.92 {
		t.Fatalf("intent = %v (%v)", ext.Intent, ext.IntentConfidence)
	}
	if !ext.Slots.Weight.Set || ext.Slots.Weight.Value != "5" {
		t.Fatalf("numeric weight not coerced to string: %+v", ext.Slots.Weight)
	}
	if ext.Slots.Volume.Set {
		t.Fatal("null volume marked as set")
	}
	if ext.Slots.Origin.Value != "JFK" {
		t.Fatalf("origin = %q", ext.Slots.Origin.Value)
	}
}

func TestParseExtractionFenced(t *testing.T) {
	raw := "```json\n{\"intent\": \"track\", \"intent_confidence\": 0.8, \"slots\": {\"booking_id\": \"CRG1A2B3C4D\"}}\n```"
	ext, err := parseExtraction(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ext.Intent != models.IntentTrack || ext.Slots.BookingID.Value != "CRG1A2B3C4D" {
		t.Fatalf("unexpected extraction: %+v", ext)
	}
}

func TestParseExtractionProseWrapped(t *testing.T) {
	raw := `Sure! Here is the JSON you asked for: {"intent": "greeting", "intent_confidence": 0.7, "slots": {}} Hope that helps.`
	ext, err := parseExtraction(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ext.Intent != models.IntentGreeting {
		t.Fatalf("intent = %v", ext.Intent)
	}
}

func TestParseExtractionJunk(t *testing.T) {
	for _, raw := range []string{"", "I could not understand the request.", "{broken"} {
		if _, err := parseExtraction(raw); err == nil {
			t.Errorf("parseExtraction(%q) succeeded", raw)
		}
	}
}

func TestParseExtractionUnknownIntentAndFields(t *testing.T) {
	raw := `{"intent": "make_coffee", "intent_confidence": 1.4,
		"slots": {"origin": "JFK", "pilot_name": "Ann"}}`
	ext, err := parseExtraction(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ext.Intent != models.IntentUnknown {
		t.Fatalf("invented intent not normalized: %v", ext.Intent)
	}
	if ext.IntentConfidence != 0 {
		t.Fatalf("out-of-range confidence kept: %v", ext.IntentConfidence)
	}
	if ext.Slots.Origin.Value != "JFK" {
		t.Fatalf("known slot lost: %+v", ext.Slots)
	}
}

func TestParseExtractionDropsStructuredValues(t *testing.T) {
	raw := `{"intent": "quote", "intent_confidence": 0.9,
		"slots": {"weight": {"value": 5, "unit": "t"}, "origin": ["JFK"]}}`
	ext, err := parseExtraction(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ext.Slots.Weight.Set || ext.Slots.Origin.Set {
		t.Fatalf("non-scalar slot values were not dropped: %+v", ext.Slots)
	}
}
