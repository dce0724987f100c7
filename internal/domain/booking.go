package domain

import "time"

// Customer holds the contact details a customer left with the booking.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Booking represents a customer service request.
type Booking struct {
	ID            int64
	Customer      Customer
	ServiceType   string
	PreferredDate time.Time
	PreferredTime string
	Notes         string
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
