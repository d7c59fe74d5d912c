package httpgin

import (
	"time"

	"github.com/kirinyoku/theatrego/internal/domain"
)

type CreateBookingRequest struct {
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	TheatreName    string `json:"theatre_name" binding:"required"`
	PackageName    string `json:"package_name"`
	PartySize      int    `json:"party_size" binding:"required,gte=1"`
	Datetime       string `json:"datetime" binding:"required"`
	SelectedAddons string `json:"selected_addons"`
	Requests       string `json:"requests"`
}

type CreateContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

type TheatreRequest struct {
	Name        string   `json:"name" binding:"required"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	Details     []string `json:"details"`
	Price       float64  `json:"price" binding:"gte=0"`
	Active      *bool    `json:"is_active"`
}

type PackageRequest struct {
	Name          string   `json:"name" binding:"required"`
	Price         float64  `json:"price" binding:"gte=0"`
	OriginalPrice float64  `json:"original_price" binding:"gte=0"`
	Description   string   `json:"description"`
	Items         []string `json:"items"`
	Active        *bool    `json:"is_active"`
}

type AddonRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Active      *bool   `json:"is_active"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type AvailabilityResponse struct {
	Availability []domain.TheatreAvailability `json:"availability"`
}

type TheatreSlotsResponse struct {
	AvailableSlots int `json:"availableSlots"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func (r CreateBookingRequest) toDomain() (domain.NewBooking, error) {
	dt, err := parseRFC3339(r.Datetime)
	if err != nil {
		return domain.NewBooking{}, err
	}

	return domain.NewBooking{
		Name:           r.Name,
		Phone:          r.Phone,
		TheatreName:    r.TheatreName,
		PackageName:    r.PackageName,
		PartySize:      r.PartySize,
		Datetime:       dt,
		SelectedAddons: r.SelectedAddons,
		Requests:       r.Requests,
	}, nil
}

func (r TheatreRequest) toDomain(id int64) domain.Theatre {
	return domain.Theatre{
		ID:          id,
		Name:        r.Name,
		Subtitle:    r.Subtitle,
		Description: r.Description,
		Details:     r.Details,
		Price:       r.Price,
		Active:      activeOrDefault(r.Active),
	}
}

func (r PackageRequest) toDomain(id int64) domain.Package {
	return domain.Package{
		ID:            id,
		Name:          r.Name,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Description:   r.Description,
		Items:         r.Items,
		Active:        activeOrDefault(r.Active),
	}
}

func (r AddonRequest) toDomain(id int64) domain.Addon {
	return domain.Addon{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Active:      activeOrDefault(r.Active),
	}
}

// activeOrDefault treats a missing is_active as true.
func activeOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
