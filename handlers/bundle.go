// File: cargoassist/handlers/bundle.go
package handlers

import (
	bookingRepoPkg "cargoassist/database/repository/booking"
	routeRepoPkg "cargoassist/database/repository/route"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	RouteRepo   routeRepoPkg.Repository
	BookingRepo bookingRepoPkg.Repository

	// Conversation endpoints
	ConversationHandler gin.HandlerFunc

	// Cargo endpoints
	QuoteHandler        gin.HandlerFunc
	BookHandler         gin.HandlerFunc
	CancelHandler       gin.HandlerFunc
	TrackHandler        gin.HandlerFunc
	ListBookingsHandler gin.HandlerFunc
	ListRoutesHandler   gin.HandlerFunc

	// AI endpoints
	AISTTHandler gin.HandlerFunc
}
