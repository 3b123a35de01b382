package handlers

import (
	"net/http"

	"cargoassist/models"
	"cargoassist/services/dialogue"
	"cargoassist/services/intelligence"
	"cargoassist/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationDeps wires the extractor, history cache and dialogue machine
// behind the /api/conversation endpoint.
type ConversationDeps struct {
	Extractor intelligence.Extractor
	History   intelligence.HistoryStore
	Machine   *dialogue.Machine
}

// NewConversationHandler handles one conversation turn. Session state comes
// in with the request, is mutated by the dialogue machine, and goes back out
// in the response; only the rolling history lives server-side.
func NewConversationHandler(deps ConversationDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		var req models.ConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
		if req.SessionID == "" {
			req.SessionID = uuid.New().String()
		}

		session := &models.Session{
			SessionID:    req.SessionID,
			Pending:      req.PendingConfirmation,
			ActiveIntent: req.ActiveIntent,
		}
		if req.AccumulatedSlots != nil {
			session.Slots = *req.AccumulatedSlots
		}

		ctx := c.Request.Context()

		history, err := deps.History.Get(ctx, session.SessionID)
		if err != nil {
			// History is best-effort context for the extractor; a cache
			// miss must not fail the turn.
			logger.Warn("Failed to load conversation history",
				zap.String("sessionID", session.SessionID), zap.Error(err))
			history = nil
		}

		var ext *models.Extraction
		var extractErr error
		// A pending confirmation is resolved by word matching alone, so the
		// extractor is skipped while one is open.
		if session.Pending == nil {
			ext, extractErr = deps.Extractor.Extract(ctx, req.Message, history, session.Slots)
			if extractErr != nil {
				logger.Warn("Slot extraction failed",
					zap.String("sessionID", session.SessionID), zap.Error(extractErr))
			}
		}

		turn := deps.Machine.Turn(ctx, session, req.Message, ext, extractErr)

		if err := deps.History.Append(ctx, session.SessionID,
			models.ConversationTurn{Role: "user", Content: req.Message},
			models.ConversationTurn{Role: "assistant", Content: turn.Response},
		); err != nil {
			logger.Warn("Failed to append conversation history",
				zap.String("sessionID", session.SessionID), zap.Error(err))
		}

		c.JSON(http.StatusOK, models.ConversationResponse{
			SessionID:           session.SessionID,
			Response:            turn.Response,
			Intent:              turn.Intent,
			Outcome:             turn.Outcome,
			AccumulatedSlots:    session.Slots,
			PendingConfirmation: session.Pending,
			ActiveIntent:        session.ActiveIntent,
			Data:                turn.Data,
		})
	}
}
