package models

import "time"

// BookingStatus tracks the lifecycle of a booking record. Bookings are never
// physically deleted; cancellation and archival are status transitions.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusArchived  BookingStatus = "archived"
)

// Booking is a persisted cargo booking.
type Booking struct {
	BookingID    string        `bson:"booking_id" json:"booking_id"` // CRG + 8 alphanumeric, externally visible
	Origin       string        `bson:"origin" json:"origin"`
	Destination  string        `bson:"destination" json:"destination"`
	WeightTonnes float64       `bson:"weight_tonnes" json:"weight_tonnes"`
	VolumeM3     *float64      `bson:"volume_m3,omitempty" json:"volume_m3,omitempty"`
	CargoType    CargoType     `bson:"cargo_type" json:"cargo_type"`
	ShippingDate string        `bson:"shipping_date" json:"shipping_date"`
	Price        float64       `bson:"price" json:"price"`
	Status       BookingStatus `bson:"status" json:"status"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// Spec rebuilds the CargoSpec embedded in the booking.
func (b *Booking) Spec() CargoSpec {
	return CargoSpec{
		CargoType:    b.CargoType,
		WeightTonnes: b.WeightTonnes,
		VolumeM3:     b.VolumeM3,
		ShippingDate: b.ShippingDate,
	}
}
