package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/kirinyoku/theatrego/internal/domain"
	"github.com/kirinyoku/theatrego/internal/queue"
	"github.com/kirinyoku/theatrego/internal/repository"
	postgresrepo "github.com/kirinyoku/theatrego/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/theatrego/internal/repository/redis"
	"github.com/kirinyoku/theatrego/internal/uow"
)

// Notifier is told about every stored booking.
type Notifier interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// Limiter caps public submissions per client.
type Limiter interface {
	Allow(ctx context.Context, id string) (redisrepo.Decision, error)
}

type Service struct {
	store    *postgresrepo.Store
	limiter  Limiter
	notifier Notifier
	logger   *slog.Logger
	uow      *uow.UoW
}

// New builds the booking service. limiter and notifier may be nil.
func New(
	store *postgresrepo.Store,
	limiter Limiter,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:    store,
		limiter:  limiter,
		notifier: notifier,
		logger:   logger,
		uow:      uow.NewUoW(store),
	}
}

// Create stores a booking request submitted from the website.
//
// Parameters:
//   - ctx: request-scoped context.
//   - in: customer supplied booking fields.
//   - rlKey: rate limit bucket of the caller, empty to skip limiting.
//
// Returns:
//   - *domain.Booking: the stored booking with status pending.
//   - error: booking.ErrInvalidBooking if a required field is missing.
//   - error: booking.ErrRateLimited (as RateLimitedError) if the caller is over quota.
func (s *Service) Create(ctx context.Context, in domain.NewBooking, rlKey string) (*domain.Booking, error) {
	const op = "service.booking.Create"

	in = normalizeBooking(in)
	if err := validateBooking(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.allow(ctx, rlKey); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var created *domain.Booking

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		b, err := s.store.Bookings().With(tx).Create(ctx, in)
		if err != nil {
			return err
		}

		created = b

		after(func(ctx context.Context) {
			s.notify(ctx, b)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// CreateContact stores a contact inquiry.
func (s *Service) CreateContact(ctx context.Context, name, email, message, rlKey string) (*domain.Contact, error) {
	const op = "service.booking.CreateContact"

	name, email, message = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(message)
	if err := validateContact(name, email, message); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.allow(ctx, rlKey); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.store.Contacts().Create(ctx, name, email, message)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Booking, error) {
	const op = "service.booking.List"

	out, err := s.store.Bookings().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	const op = "service.booking.ListContacts"

	out, err := s.store.Contacts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UpdateStatus moves a booking to status.
//
// Returns:
//   - error: booking.ErrInvalidStatus for an unknown status.
//   - error: booking.ErrBookingNotFound if no booking has the id.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	const op = "service.booking.UpdateStatus"

	status = domain.BookingStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidStatus)
	}

	b, err := s.store.Bookings().UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

func (s *Service) allow(ctx context.Context, rlKey string) error {
	if s.limiter == nil || rlKey == "" {
		return nil
	}

	d, err := s.limiter.Allow(ctx, rlKey)
	if err != nil {
		// an unavailable limiter must not block bookings
		s.logger.Warn("rate limiter unavailable", "error", err)
		return nil
	}
	if !d.Allowed {
		return RateLimitedError{RetryAfter: d.RetryAfter}
	}

	return nil
}

func (s *Service) notify(ctx context.Context, b *domain.Booking) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()

	if err := s.notifier.PublishBookingCreated(ctx, eventFrom(b)); err != nil {
		s.logger.Error("publish booking created", "booking_id", b.ID, "error", err)
	}
}

func eventFrom(b *domain.Booking) queue.BookingCreatedEvent {
	return queue.BookingCreatedEvent{
		BookingID:      b.ID,
		Name:           b.Name,
		Phone:          b.Phone,
		TheatreName:    b.TheatreName,
		PackageName:    b.PackageName,
		PartySize:      b.PartySize,
		Datetime:       b.Datetime,
		SelectedAddons: b.SelectedAddons,
		CreatedAt:      b.CreatedAt,
	}
}

func normalizeBooking(in domain.NewBooking) domain.NewBooking {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.TheatreName = strings.TrimSpace(in.TheatreName)
	in.PackageName = strings.TrimSpace(in.PackageName)
	if in.PackageName == "" {
		in.PackageName = "None"
	}
	in.SelectedAddons = strings.TrimSpace(in.SelectedAddons)
	in.Requests = strings.TrimSpace(in.Requests)
	return in
}

func validateBooking(in domain.NewBooking) error {
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidBooking)
	case in.Phone == "":
		return fmt.Errorf("%w: phone is required", ErrInvalidBooking)
	case in.TheatreName == "":
		return fmt.Errorf("%w: theatre_name is required", ErrInvalidBooking)
	case in.Datetime.IsZero():
		return fmt.Errorf("%w: datetime is required", ErrInvalidBooking)
	case in.PartySize < 1:
		return fmt.Errorf("%w: party_size must be at least 1", ErrInvalidBooking)
	}
	return nil
}

func validateContact(name, email, message string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidContact)
	case message == "":
		return fmt.Errorf("%w: message is required", ErrInvalidContact)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email is invalid", ErrInvalidContact)
	}
	return nil
}
