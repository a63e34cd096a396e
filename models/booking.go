package models

import (
	"strings"
	"time"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
)

// bookingTransitions is the full status table; statuses missing as keys are terminal.
var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingRejected, BookingCancelled},
	BookingConfirmed: {BookingCancelled},
}

// IsBookingStatus reports whether s is one of the known labels.
func IsBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusTitle capitalises a status for notification titles ("confirmed" -> "Confirmed").
func StatusTitle(status string) string {
	if status == "" {
		return ""
	}
	return strings.ToUpper(status[:1]) + status[1:]
}

// Booking is a reservation request against a Space.
type Booking struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	SpaceID    int64     `json:"space_id" db:"space_id"`
	CheckIn    Date      `json:"checkIn" db:"check_in"`
	CheckOut   Date      `json:"checkOut" db:"check_out"`
	TotalPrice float64   `json:"totalPrice" db:"total_price"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// BookingSpace is the space summary joined onto a booking.
type BookingSpace struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Location string     `json:"location"`
	Images   StringList `json:"images,omitempty"`
}

// BookingDetail is a booking with its joined space and user; either may be nil
// when the join found nothing.
type BookingDetail struct {
	Booking
	Space *BookingSpace `json:"space"`
	User  *UserSummary  `json:"user,omitempty"`
}

// BookingUpdate is a partial update; nil pointers are left untouched.
type BookingUpdate struct {
	Status *string
}

// CreateBookingRequest is the body of POST /bookings
type CreateBookingRequest struct {
	SpaceID    int64   `json:"spaceId" validate:"required"`
	CheckIn    string  `json:"checkIn" validate:"required"`
	CheckOut   string  `json:"checkOut" validate:"required"`
	TotalPrice float64 `json:"totalPrice" validate:"required,gt=0"`
}

// UpdateBookingRequest is the body of PUT /bookings/{id}
type UpdateBookingRequest struct {
	Status string `json:"status"`
}
