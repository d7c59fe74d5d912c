package domain

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

type Theatre struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Details     []string  `json:"details"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	Active      bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Package struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price"`
	Description   string   `json:"description"`
	Items         []string `json:"items"`
	Active        bool     `json:"is_active"`
}

type Addon struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Active      bool    `json:"is_active"`
}

type GalleryImage struct {
	ID        int64     `json:"id"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Booking is a reservation of one theatre starting at Datetime.
type Booking struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Phone          string        `json:"phone"`
	TheatreName    string        `json:"theatre_name"`
	PackageName    string        `json:"package_name"`
	PartySize      int           `json:"party_size"`
	Datetime       time.Time     `json:"datetime"`
	SelectedAddons string        `json:"selected_addons"`
	Requests       string        `json:"requests"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// NewBooking carries the customer supplied fields of a booking request.
type NewBooking struct {
	Name           string
	Phone          string
	TheatreName    string
	PackageName    string
	PartySize      int
	Datetime       time.Time
	SelectedAddons string
	Requests       string
}

type WebsiteData struct {
	Theatres      []Theatre      `json:"theatres"`
	Packages      []Package      `json:"packages"`
	Addons        []Addon        `json:"addons"`
	GalleryImages []GalleryImage `json:"galleryImages"`
}

// TheatreAvailability is the number of free slots a theatre has on one day.
type TheatreAvailability struct {
	Name  string `json:"name"`
	Slots int    `json:"slots"`
}
