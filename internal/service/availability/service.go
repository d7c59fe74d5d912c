package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirinyoku/theatrego/internal/domain"
	"github.com/kirinyoku/theatrego/internal/slots"
)

// DateLayout is the accepted format of the date query parameter.
const DateLayout = "2006-01-02"

// TheatreDirectory lists the theatres that can currently be booked.
type TheatreDirectory interface {
	ListActiveTheatres(ctx context.Context) ([]domain.Theatre, error)
}

// BookingLedger reads booking starts in a half-open time range.
type BookingLedger interface {
	ListBookingsBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	ListTheatreBookingsBetween(ctx context.Context, theatreName string, from, to time.Time) ([]domain.Booking, error)
}

type Config struct {
	// Location is where dates are resolved and booking hours are read.
	Location *time.Location
	Slots    slots.Config
	// BatchPolicy applies to the all-theatres query.
	BatchPolicy slots.BusinessHoursPolicy
	// SinglePolicy applies to the one-theatre query.
	SinglePolicy slots.BusinessHoursPolicy
	// Picker drives the popularity adjustment; nil disables it.
	Picker slots.Picker
}

type Service struct {
	theatres TheatreDirectory
	bookings BookingLedger
	loc      *time.Location
	batch    *slots.Calculator
	single   *slots.Calculator
}

func New(theatres TheatreDirectory, bookings BookingLedger, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	if cfg.BatchPolicy == nil {
		cfg.BatchPolicy = slots.DefaultWeekendAware()
	}

	if cfg.SinglePolicy == nil {
		cfg.SinglePolicy = slots.DefaultFixed()
	}

	return &Service{
		theatres: theatres,
		bookings: bookings,
		loc:      cfg.Location,
		batch:    slots.NewCalculator(cfg.Slots, cfg.BatchPolicy, cfg.Location, cfg.Picker),
		single:   slots.NewCalculator(cfg.Slots, cfg.SinglePolicy, cfg.Location, nil),
	}
}

// ParseDate resolves a YYYY-MM-DD string to midnight in the service location.
func (s *Service) ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	day, err := time.ParseInLocation(DateLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	return day, nil
}

// All returns the free slot count of every active theatre on the given date,
// after one popularity adjustment.
//
// Parameters:
//   - ctx: request-scoped context.
//   - rawDate: date as YYYY-MM-DD.
//
// Returns:
//   - []domain.TheatreAvailability: one entry per active theatre, in directory order.
//   - error: availability.ErrInvalidInput for a bad date.
//   - error: availability.ErrStorageFailure if theatres or bookings cannot be read.
func (s *Service) All(ctx context.Context, rawDate string) ([]domain.TheatreAvailability, error) {
	const op = "service.availability.All"

	day, err := s.ParseDate(rawDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	theatres, err := s.theatres.ListActiveTheatres(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageFailure, err)
	}

	from, to := s.dayBounds(day)
	bookings, err := s.bookings.ListBookingsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStorageFailure, err)
	}

	names := make([]string, len(theatres))
	for i, t := range theatres {
		names[i] = t.Name
	}

	results := s.batch.Batch(day, names, bookings)

	out := make([]domain.TheatreAvailability, len(results))
	for i, r := range results {
		out[i] = domain.TheatreAvailability{Name: r.Theatre, Slots: r.Count()}
	}

	return out, nil
}

// ForTheatre returns the free slots of one theatre on the given date. No
// popularity adjustment is applied.
//
// Returns:
//   - slots.Result: the free slot starts of the theatre.
//   - error: availability.ErrInvalidInput for a bad date or a blank theatre name.
//   - error: availability.ErrStorageFailure if bookings cannot be read.
func (s *Service) ForTheatre(ctx context.Context, rawDate, theatreName string) (slots.Result, error) {
	const op = "service.availability.ForTheatre"

	day, err := s.ParseDate(rawDate)
	if err != nil {
		return slots.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	theatreName = strings.TrimSpace(theatreName)
	if theatreName == "" {
		return slots.Result{}, fmt.Errorf("%s: %w: theatre is required", op, ErrInvalidInput)
	}

	from, to := s.dayBounds(day)
	bookings, err := s.bookings.ListTheatreBookingsBetween(ctx, theatreName, from, to)
	if err != nil {
		return slots.Result{}, fmt.Errorf("%s: %w: %w", op, ErrStorageFailure, err)
	}

	return s.single.Available(day, []string{theatreName}, bookings)[0], nil
}

// dayBounds returns the local midnights that enclose day.
func (s *Service) dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.In(s.loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return from, from.AddDate(0, 0, 1)
}
