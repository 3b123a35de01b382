package dialogue

import (
	"cargoassist/models"
	"cargoassist/services/validation"
)

// Slot names as they appear in extractor output and clarification messages.
const (
	slotOrigin       = "origin"
	slotDestination  = "destination"
	slotWeight       = "weight"
	slotVolume       = "volume"
	slotCargoType    = "cargo_type"
	slotShippingDate = "shipping_date"
	slotBookingID    = "booking_id"
)

// requiredSlots maps an intent to the slot set it needs before acting.
// Volume is always optional.
func requiredSlots(intent models.Intent) []string {
	switch intent {
	case models.IntentQuote, models.IntentBook:
		return []string{slotOrigin, slotDestination, slotWeight, slotCargoType, slotShippingDate}
	case models.IntentCancel, models.IntentTrack:
		return []string{slotBookingID}
	default:
		return nil
	}
}

// confidentValue returns the raw value only when the extractor was confident
// enough in it. Low-confidence guesses are treated as absent so they can
// never silently become a wrong booking.
func (m *Machine) confidentValue(ext *models.Extraction, name string, v models.SlotValue) (string, bool) {
	if !v.Set {
		return "", false
	}
	if conf, ok := ext.SlotConfidence[name]; ok && conf < m.ConfidenceThreshold {
		return "", false
	}
	return v.Value, true
}

// mergeSlots folds newly extracted values into the session. Each value is
// revalidated independently; a value that fails validation is reported back
// and the previously accumulated value, if any, stays untouched.
func (m *Machine) mergeSlots(session *models.Session, ext *models.Extraction) []*validation.FieldError {
	var invalid []*validation.FieldError
	slots := &session.Slots

	if raw, ok := m.confidentValue(ext, slotOrigin, ext.Slots.Origin); ok {
		if code, fe := validation.Location(slotOrigin, raw); fe != nil {
			invalid = append(invalid, fe)
		} else {
			slots.Origin = code
		}
	}
	if raw, ok := m.confidentValue(ext, slotDestination, ext.Slots.Destination); ok {
		if code, fe := validation.Location(slotDestination, raw); fe != nil {
			invalid = append(invalid, fe)
		} else {
			slots.Destination = code
		}
	}
	if raw, ok := m.confidentValue(ext, slotWeight, ext.Slots.Weight); ok {
		if w, fe := validation.Weight(raw); fe != nil {
			invalid = append(invalid, fe)
		} else {
			slots.WeightTonnes = &w
		}
	}
	if raw, ok := m.confidentValue(ext, slotVolume, ext.Slots.Volume); ok {
		if v, fe := validation.Volume(raw); fe != nil {
			invalid = append(invalid, fe)
		} else {
			slots.VolumeM3 = &v
		}
	}
	if raw, ok := m.confidentValue(ext, slotCargoType, ext.Slots.CargoType); ok {
		if ct, fe := validation.CargoType(raw); fe != nil {
			invalid = append(invalid, fe)
		} else {
			slots.CargoType = string(ct)
		}
	}
	if raw, ok := m.confidentValue(ext, slotShippingDate, ext.Slots.ShippingDate); ok {
		if d, fe := validation.ShippingDate(raw, m.Now()); fe != nil {
			invalid = append(invalid, fe)
		} else {
			slots.ShippingDate = d
		}
	}
	if raw, ok := m.confidentValue(ext, slotBookingID, ext.Slots.BookingID); ok {
		if id, fe := validation.BookingID(raw); fe != nil {
			invalid = append(invalid, fe)
		} else {
			slots.BookingID = id
		}
	}

	return invalid
}

// missingSlots lists the required slots the session does not hold yet.
func missingSlots(intent models.Intent, slots *models.AccumulatedSlots) []string {
	var missing []string
	for _, name := range requiredSlots(intent) {
		switch name {
		case slotOrigin:
			if slots.Origin == "" {
				missing = append(missing, name)
			}
		case slotDestination:
			if slots.Destination == "" {
				missing = append(missing, name)
			}
		case slotWeight:
			if slots.WeightTonnes == nil {
				missing = append(missing, name)
			}
		case slotCargoType:
			if slots.CargoType == "" {
				missing = append(missing, name)
			}
		case slotShippingDate:
			if slots.ShippingDate == "" {
				missing = append(missing, name)
			}
		case slotBookingID:
			if slots.BookingID == "" {
				missing = append(missing, name)
			}
		}
	}
	return missing
}
