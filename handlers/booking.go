package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	bookingRepoPkg "cargoassist/database/repository/booking"
	routeRepoPkg "cargoassist/database/repository/route"
	"cargoassist/models"
	"cargoassist/services/dialogue"
	"cargoassist/services/pricing"
	"cargoassist/services/validation"
	"cargoassist/utils"

	"github.com/gin-gonic/gin"
)

// BookRequest is the direct booking payload. Confirmed must be true; the
// REST surface has no conversational confirmation gate, so the client
// asserts consent explicitly.
type BookRequest struct {
	QuoteRequest
	Confirmed bool `json:"confirmed"`
}

// CancelRequest asks for a cancellation by booking reference.
type CancelRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Confirmed bool   `json:"confirmed"`
}

// NewBookHandler prices and persists a booking in one call.
func NewBookHandler(routeRepo routeRepoPkg.Repository, bookingRepo bookingRepoPkg.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
		if !req.Confirmed {
			utils.JSONError(c, http.StatusBadRequest, "confirmation required",
				"set confirmed to true to place the booking")
			return
		}

		origin, destination, spec, fieldErrs := validateQuoteRequest(req.QuoteRequest, time.Now().UTC())
		if len(fieldErrs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrs})
			return
		}

		ctx := c.Request.Context()
		route, err := routeRepo.FindRoute(ctx, origin, destination)
		if err != nil {
			if errors.Is(err, routeRepoPkg.ErrNotFound) {
				utils.JSONError(c, http.StatusNotFound, "route not available",
					fmt.Sprintf("no service between %s and %s", origin, destination))
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "failed to look up route", err.Error())
			return
		}

		breakdown := pricing.Quote(*route, spec)
		booking := &models.Booking{
			BookingID:    dialogue.NewBookingID(),
			Origin:       route.Origin,
			Destination:  route.Destination,
			WeightTonnes: spec.WeightTonnes,
			VolumeM3:     spec.VolumeM3,
			CargoType:    spec.CargoType,
			ShippingDate: spec.ShippingDate,
			Price:        breakdown.Total,
			Status:       models.StatusConfirmed,
		}
		if err := bookingRepo.Create(ctx, booking); err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to create booking", err.Error())
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"booking":      booking,
			"transit_days": route.TransitDays,
			"breakdown":    breakdown,
		})
	}
}

// NewCancelHandler cancels a pending or confirmed booking. The status check
// and the transition happen in one conditional update, so a concurrent
// cancel of the same booking loses cleanly with a conflict.
func NewCancelHandler(bookingRepo bookingRepoPkg.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
		if !req.Confirmed {
			utils.JSONError(c, http.StatusBadRequest, "confirmation required",
				"set confirmed to true to cancel the booking")
			return
		}
		bookingID, fe := validation.BookingID(req.BookingID)
		if fe != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": []*validation.FieldError{fe}})
			return
		}

		updated, err := bookingRepo.UpdateStatus(c.Request.Context(), bookingID,
			[]models.BookingStatus{models.StatusPending, models.StatusConfirmed},
			models.StatusCancelled)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepoPkg.ErrNotFound):
				utils.JSONError(c, http.StatusNotFound, "booking not found", bookingID)
			case errors.Is(err, bookingRepoPkg.ErrConflict):
				utils.JSONError(c, http.StatusConflict, "booking cannot be cancelled",
					"only pending or confirmed bookings can be cancelled")
			default:
				utils.JSONError(c, http.StatusInternalServerError, "failed to cancel booking", err.Error())
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"booking": updated})
	}
}

// NewTrackHandler looks up a booking by its external reference.
func NewTrackHandler(bookingRepo bookingRepoPkg.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, fe := validation.BookingID(c.Param("bookingID"))
		if fe != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": []*validation.FieldError{fe}})
			return
		}

		booking, err := bookingRepo.FindByBookingID(c.Request.Context(), bookingID)
		if err != nil {
			if errors.Is(err, bookingRepoPkg.ErrNotFound) {
				utils.JSONError(c, http.StatusNotFound, "booking not found", bookingID)
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "failed to look up booking", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

// NewListBookingsHandler lists bookings, newest first, optionally filtered
// by status.
func NewListBookingsHandler(bookingRepo bookingRepoPkg.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status models.BookingStatus
		if s := c.Query("status"); s != "" {
			switch models.BookingStatus(s) {
			case models.StatusPending, models.StatusConfirmed, models.StatusCancelled, models.StatusArchived:
				status = models.BookingStatus(s)
			default:
				utils.JSONError(c, http.StatusBadRequest, "invalid status filter", s)
				return
			}
		}

		var limit int64
		if l := c.Query("limit"); l != "" {
			parsed, err := strconv.ParseInt(l, 10, 64)
			if err != nil || parsed <= 0 {
				utils.JSONError(c, http.StatusBadRequest, "invalid limit", l)
				return
			}
			limit = parsed
		}

		bookings, err := bookingRepo.List(c.Request.Context(), status, limit)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
	}
}
