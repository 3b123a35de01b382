package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"

	"cargoassist/models"
)

const systemPrompt = `You are the language front end of an air cargo booking assistant. Your only job is to extract intent and slot values from the user's message. You never calculate prices, never make booking decisions, and never invent data.

VALID INTENTS:
- quote: the user wants a price quote
- book: the user wants to create a booking
- cancel: the user wants to cancel a booking
- track: the user wants to track a booking
- greeting: greeting or small talk
- unknown: the user is answering a follow-up question, or the goal is unclear

SLOTS TO EXTRACT:
- origin: origin city or airport code
- destination: destination city or airport code
- weight: weight in tonnes (convert from kg, lbs or tons if needed)
- volume: volume in cubic meters
- cargo_type: one of general, perishable, hazardous, vehicles, livestock
- shipping_date: date in YYYY-MM-DD format
- booking_id: booking reference number

RULES:
1. Use the conversation history and the known slot values below; only extract what the CURRENT message adds or changes.
2. Set a slot to null when the message says nothing about it.
3. Give a confidence between 0 and 1 for the intent and for each extracted slot.
4. When the user answers a follow-up question, use intent "unknown" and just extract the slots.

Return ONLY a JSON object with this exact shape, no other text:
{
  "intent": "quote|book|cancel|track|greeting|unknown",
  "intent_confidence": 0.0,
  "slots": {
    "origin": null,
    "destination": null,
    "weight": null,
    "volume": null,
    "cargo_type": null,
    "shipping_date": null,
    "booking_id": null
  },
  "slot_confidence": {},
  "missing_slots": [],
  "clarification_question": null
}`

// buildPrompt assembles the full prompt: instructions, known state, recent
// history and the current message.
func buildPrompt(utterance string, history []models.ConversationTurn, accumulated models.AccumulatedSlots) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)

	if known, err := json.Marshal(accumulated); err == nil && string(known) != "{}" {
		sb.WriteString("\n\nKNOWN SLOT VALUES (already collected, do not re-extract unless changed):\n")
		sb.Write(known)
	}

	if len(history) > 0 {
		sb.WriteString("\n\nCONVERSATION HISTORY:\n")
		for _, turn := range history {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
		}
	}

	fmt.Fprintf(&sb, "\nUser: %s\n", utterance)
	return sb.String()
}
