// Package queue carries booking notifications over RabbitMQ.
package queue

import "time"

const BookingCreatedQueue = "booking.created"

// BookingCreatedEvent is published once a booking request is stored. It holds
// enough for a consumer to notify staff without reading the database.
type BookingCreatedEvent struct {
	BookingID      int64     `json:"booking_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	TheatreName    string    `json:"theatre_name"`
	PackageName    string    `json:"package_name"`
	PartySize      int       `json:"party_size"`
	Datetime       time.Time `json:"datetime"`
	SelectedAddons string    `json:"selected_addons"`
	CreatedAt      time.Time `json:"created_at"`
}
