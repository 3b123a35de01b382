package dialogue

import (
	"fmt"
	"strings"

	"cargoassist/models"
	"cargoassist/services/validation"
)

const (
	greetingReply = "Hello! I'm your air cargo booking assistant. I can help you get quotes, " +
		"create bookings, track shipments, or cancel bookings. How can I help you today?"
	helpReply = "I can help you with quotes, bookings, tracking, or cancellations. " +
		"What would you like to do?"
	rephraseReply = "I'm sorry, I didn't catch that. Could you rephrase?"
	failureReply  = "Something went wrong on our side. Your details are saved, please try again."
)

// clarificationReply names exactly the missing and invalid fields.
func clarificationReply(missing []string, invalid []*validation.FieldError) string {
	var parts []string
	for _, fe := range invalid {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	if len(missing) > 0 {
		parts = append(parts, "please provide: "+strings.Join(missing, ", "))
	}
	if len(parts) == 0 {
		return helpReply
	}
	return strings.Join(parts, ". ") + "."
}

func shipmentSummary(origin, destination string, spec *models.CargoSpec) string {
	s := fmt.Sprintf("%s to %s, %g tonnes of %s cargo on %s",
		origin, destination, spec.WeightTonnes, spec.CargoType, spec.ShippingDate)
	if spec.VolumeM3 != nil {
		s += fmt.Sprintf(" (%g m³)", *spec.VolumeM3)
	}
	return s
}

func quoteReply(origin, destination string, spec *models.CargoSpec, bd models.QuoteBreakdown, transitDays int) string {
	return fmt.Sprintf("Your quote for %s is $%.2f (estimated %d day(s) transit). Would you like to book this shipment?",
		shipmentSummary(origin, destination, spec), bd.Total, transitDays)
}

// confirmationPrompt describes the pending action and asks for explicit
// consent. Also used verbatim to re-prompt after an ambiguous reply.
func confirmationPrompt(p *models.PendingConfirmation) string {
	switch p.Action {
	case models.ActionBook:
		return fmt.Sprintf("I'll book %s for a total of $%.2f. Shall I proceed? (yes/no)",
			shipmentSummary(p.Origin, p.Destination, p.Spec), p.Price)
	case models.ActionCancel:
		return fmt.Sprintf("Are you sure you want to cancel booking %s? (yes/no)", p.BookingID)
	default:
		return "Please confirm with yes or no."
	}
}

func declinedReply(action models.ConfirmAction) string {
	if action == models.ActionCancel {
		return "Okay, I've left the booking as it is. Anything else I can do?"
	}
	return "Okay, I won't book it. Your shipment details are kept, let me know what to change."
}

func bookedReply(b *models.Booking) string {
	return fmt.Sprintf("Booking confirmed! Your booking ID is %s, total $%.2f for shipping on %s.",
		b.BookingID, b.Price, b.ShippingDate)
}

func cancelledReply(bookingID string) string {
	return fmt.Sprintf("Booking %s has been cancelled.", bookingID)
}

func trackReply(b *models.Booking) string {
	return fmt.Sprintf("Booking %s: status %q. Route %s to %s, %g tonnes of %s, shipping on %s, price $%.2f.",
		b.BookingID, b.Status, b.Origin, b.Destination, b.WeightTonnes, b.CargoType, b.ShippingDate, b.Price)
}

func noRouteReply(origin, destination string) string {
	return fmt.Sprintf("No route available from %s to %s. Please check available routes or contact us for custom routing.",
		origin, destination)
}
