// Package intelligence is the boundary to the LLM. The model only ever
// turns an utterance into intent and raw slot values; it never prices,
// decides, or touches the store.
package intelligence

import (
	"context"
	"errors"

	"cargoassist/models"
)

// ErrExtractionUnavailable signals a transient extractor failure. The
// dialogue machine responds with a generic clarification and keeps all
// accumulated state.
var ErrExtractionUnavailable = errors.New("slot extraction unavailable")

// Extractor turns one utterance plus conversation context into a
// structured extraction.
type Extractor interface {
	Extract(ctx context.Context, utterance string, history []models.ConversationTurn, accumulated models.AccumulatedSlots) (*models.Extraction, error)
}

// HistoryStore keeps the rolling per-session conversation history.
type HistoryStore interface {
	Get(ctx context.Context, sessionID string) ([]models.ConversationTurn, error)
	Append(ctx context.Context, sessionID string, turns ...models.ConversationTurn) error
	Clear(ctx context.Context, sessionID string) error
}
