package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/theatrego/internal/domain"
	"github.com/kirinyoku/theatrego/internal/queue"
	redisrepo "github.com/kirinyoku/theatrego/internal/repository/redis"
)

func validBooking() domain.NewBooking {
	return domain.NewBooking{
		Name:        "Asha",
		Phone:       "+91 90000 00000",
		TheatreName: "Imperial Suite",
		PartySize:   2,
		Datetime:    time.Date(2026, 10, 12, 15, 0, 0, 0, time.UTC),
	}
}

func TestNormalizeBooking(t *testing.T) {
	in := validBooking()
	in.Name = "  Asha "
	in.TheatreName = " Imperial Suite\n"

	out := normalizeBooking(in)

	assert.Equal(t, "Asha", out.Name)
	assert.Equal(t, "Imperial Suite", out.TheatreName)
	assert.Equal(t, "None", out.PackageName)
}

func TestValidateBooking(t *testing.T) {
	require.NoError(t, validateBooking(validBooking()))

	cases := map[string]func(*domain.NewBooking){
		"name":       func(b *domain.NewBooking) { b.Name = "" },
		"phone":      func(b *domain.NewBooking) { b.Phone = "" },
		"theatre":    func(b *domain.NewBooking) { b.TheatreName = "" },
		"datetime":   func(b *domain.NewBooking) { b.Datetime = time.Time{} },
		"party_size": func(b *domain.NewBooking) { b.PartySize = 0 },
	}
	for name, mutate := range cases {
		b := validBooking()
		mutate(&b)
		assert.ErrorIs(t, validateBooking(b), ErrInvalidBooking, name)
	}
}

func TestValidateContact(t *testing.T) {
	assert.NoError(t, validateContact("Ravi", "ravi@example.com", "Is Friday free?"))
	assert.ErrorIs(t, validateContact("", "ravi@example.com", "hi"), ErrInvalidContact)
	assert.ErrorIs(t, validateContact("Ravi", "not-an-email", "hi"), ErrInvalidContact)
	assert.ErrorIs(t, validateContact("Ravi", "ravi@example.com", ""), ErrInvalidContact)
}

func TestRateLimitedError(t *testing.T) {
	var err error = RateLimitedError{RetryAfter: 30 * time.Second}

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "30s")

	var rl RateLimitedError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 30*time.Second, rl.RetryAfter)
}

type recordingNotifier struct {
	events []queue.BookingCreatedEvent
	err    error
}

func (n *recordingNotifier) PublishBookingCreated(_ context.Context, ev queue.BookingCreatedEvent) error {
	n.events = append(n.events, ev)
	return n.err
}

func TestNotify_PublishesEvent(t *testing.T) {
	n := &recordingNotifier{err: errors.New("broker down")}
	svc := New(nil, nil, n, nil)
	b := &domain.Booking{ID: 9, TheatreName: "Royal", PartySize: 3, Datetime: time.Date(2026, 10, 17, 21, 0, 0, 0, time.UTC)}

	svc.notify(context.Background(), b)

	require.Len(t, n.events, 1)
	assert.Equal(t, int64(9), n.events[0].BookingID)
	assert.Equal(t, "Royal", n.events[0].TheatreName)
	assert.Equal(t, b.Datetime, n.events[0].Datetime)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := New(nil, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, "archived")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCreate_RejectsInvalidBeforeStorage(t *testing.T) {
	svc := New(nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), domain.NewBooking{}, "ip:1")

	assert.ErrorIs(t, err, ErrInvalidBooking)
}

type fakeLimiter struct {
	decision redisrepo.Decision
	err      error
	ids      []string
}

func (f *fakeLimiter) Allow(_ context.Context, id string) (redisrepo.Decision, error) {
	f.ids = append(f.ids, id)
	return f.decision, f.err
}

func TestCreateContact_RateLimited(t *testing.T) {
	lim := &fakeLimiter{decision: redisrepo.Decision{Allowed: false, Hits: 10, RetryAfter: 20 * time.Second}}
	svc := New(nil, lim, nil, nil)

	_, err := svc.CreateContact(context.Background(), "Ravi", "ravi@example.com", "hello", "ip:10.0.0.1")

	assert.ErrorIs(t, err, ErrRateLimited)
	var rl RateLimitedError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 20*time.Second, rl.RetryAfter)
	assert.Equal(t, []string{"ip:10.0.0.1"}, lim.ids)
}

func TestAllow(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, New(nil, nil, nil, nil).allow(ctx, "ip:1"), "no limiter")

	lim := &fakeLimiter{decision: redisrepo.Decision{Allowed: false}}
	assert.NoError(t, New(nil, lim, nil, nil).allow(ctx, ""), "no key")
	assert.Empty(t, lim.ids)

	failing := &fakeLimiter{err: errors.New("redis down")}
	assert.NoError(t, New(nil, failing, nil, nil).allow(ctx, "ip:1"), "limiter errors fail open")

	ok := &fakeLimiter{decision: redisrepo.Decision{Allowed: true, Hits: 1}}
	assert.NoError(t, New(nil, ok, nil, nil).allow(ctx, "ip:1"))
}
