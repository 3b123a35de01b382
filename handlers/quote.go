package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	routeRepoPkg "cargoassist/database/repository/route"
	"cargoassist/models"
	"cargoassist/services/pricing"
	"cargoassist/services/validation"
	"cargoassist/utils"

	"github.com/gin-gonic/gin"
)

// QuoteRequest is the direct (non-conversational) quote payload.
type QuoteRequest struct {
	Origin       string   `json:"origin" binding:"required"`
	Destination  string   `json:"destination" binding:"required"`
	WeightTonnes float64  `json:"weight_tonnes" binding:"required"`
	VolumeM3     *float64 `json:"volume_m3,omitempty"`
	CargoType    string   `json:"cargo_type" binding:"required"`
	ShippingDate string   `json:"shipping_date" binding:"required"`
}

// validateQuoteRequest normalizes the payload through the same slot
// validators the conversation flow uses.
func validateQuoteRequest(req QuoteRequest, now time.Time) (origin, destination string, spec models.CargoSpec, fieldErrs []*validation.FieldError) {
	origin, fe := validation.Location("origin", req.Origin)
	if fe != nil {
		fieldErrs = append(fieldErrs, fe)
	}
	destination, fe = validation.Location("destination", req.Destination)
	if fe != nil {
		fieldErrs = append(fieldErrs, fe)
	}
	if fe == nil && origin != "" {
		if fe := validation.RoutePair(origin, destination); fe != nil {
			fieldErrs = append(fieldErrs, fe)
		}
	}

	weight, fe := validation.Weight(fmt.Sprintf("%g", req.WeightTonnes))
	if fe != nil {
		fieldErrs = append(fieldErrs, fe)
	} else {
		spec.WeightTonnes = weight
	}
	if req.VolumeM3 != nil {
		vol, fe := validation.Volume(fmt.Sprintf("%g", *req.VolumeM3))
		if fe != nil {
			fieldErrs = append(fieldErrs, fe)
		} else {
			spec.VolumeM3 = &vol
		}
	}
	ct, fe := validation.CargoType(req.CargoType)
	if fe != nil {
		fieldErrs = append(fieldErrs, fe)
	} else {
		spec.CargoType = ct
	}
	date, fe := validation.ShippingDate(req.ShippingDate, now)
	if fe != nil {
		fieldErrs = append(fieldErrs, fe)
	} else {
		spec.ShippingDate = date
	}
	return origin, destination, spec, fieldErrs
}

// NewQuoteHandler prices a fully specified shipment in one call, bypassing
// the conversational flow.
func NewQuoteHandler(routeRepo routeRepoPkg.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}

		origin, destination, spec, fieldErrs := validateQuoteRequest(req, time.Now().UTC())
		if len(fieldErrs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrs})
			return
		}

		route, err := routeRepo.FindRoute(c.Request.Context(), origin, destination)
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
		c.JSON(http.StatusOK, gin.H{
			"origin":       route.Origin,
			"destination":  route.Destination,
			"transit_days": route.TransitDays,
			"price":        breakdown.Total,
			"breakdown":    breakdown,
		})
	}
}

// NewListRoutesHandler returns the full service lane table.
func NewListRoutesHandler(routeRepo routeRepoPkg.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes, err := routeRepo.ListRoutes(c.Request.Context())
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to list routes", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"routes": routes})
	}
}
