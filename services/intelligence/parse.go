package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"

	"cargoassist/models"
)

// parseExtraction recovers a structured extraction from raw model output.
// Models wrap JSON in code fences or prose often enough that we cut out the
// outermost object before decoding. Unknown fields are dropped by the
// RawSlots decoder, so the model cannot smuggle extra data through.
func parseExtraction(raw string) (*models.Extraction, error) {
	payload := strings.TrimSpace(raw)
	if !json.Valid([]byte(payload)) {
		start := strings.Index(payload, "{")
		end := strings.LastIndex(payload, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in model output")
		}
		payload = payload[start : end+1]
	}

	var ext models.Extraction
	if err := json.Unmarshal([]byte(payload), &ext); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}

	switch ext.Intent {
	case models.IntentQuote, models.IntentBook, models.IntentCancel,
		models.IntentTrack, models.IntentGreeting:
	default:
		ext.Intent = models.IntentUnknown
	}
	if ext.IntentConfidence < 0 || ext.IntentConfidence > 1 {
		ext.IntentConfidence = 0
	}
	return &ext, nil
}
