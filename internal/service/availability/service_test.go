package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/theatrego/internal/domain"
	"github.com/kirinyoku/theatrego/internal/slots"
)

type fakeDirectory struct {
	theatres []domain.Theatre
	err      error
}

func (f *fakeDirectory) ListActiveTheatres(context.Context) ([]domain.Theatre, error) {
	return f.theatres, f.err
}

type ledgerCall struct {
	theatre  string
	from, to time.Time
}

type fakeLedger struct {
	bookings []domain.Booking
	err      error
	calls    []ledgerCall
}

func (f *fakeLedger) ListBookingsBetween(_ context.Context, from, to time.Time) ([]domain.Booking, error) {
	f.calls = append(f.calls, ledgerCall{from: from, to: to})
	return f.bookings, f.err
}

func (f *fakeLedger) ListTheatreBookingsBetween(_ context.Context, theatre string, from, to time.Time) ([]domain.Booking, error) {
	f.calls = append(f.calls, ledgerCall{theatre: theatre, from: from, to: to})
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.TheatreName == theatre {
			out = append(out, b)
		}
	}
	return out, f.err
}

// firstPicker always picks index 0.
type firstPicker struct{ calls int }

func (p *firstPicker) IntN(int) int {
	p.calls++
	return 0
}

func newTestService(dir *fakeDirectory, ledger *fakeLedger, picker slots.Picker) *Service {
	return New(dir, ledger, Config{Location: time.UTC, Slots: slots.DefaultConfig(), Picker: picker})
}

func TestAll_MondayScenario(t *testing.T) {
	dir := &fakeDirectory{theatres: []domain.Theatre{{ID: 1, Name: "Imperial Suite", Active: true}}}
	ledger := &fakeLedger{bookings: []domain.Booking{
		{TheatreName: "Imperial Suite", Datetime: time.Date(2026, 10, 12, 15, 0, 0, 0, time.UTC)},
	}}
	svc := newTestService(dir, ledger, nil)

	got, err := svc.All(context.Background(), "2026-10-12")

	require.NoError(t, err)
	assert.Equal(t, []domain.TheatreAvailability{{Name: "Imperial Suite", Slots: 3}}, got)

	require.Len(t, ledger.calls, 1)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), ledger.calls[0].from)
	assert.Equal(t, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), ledger.calls[0].to)
}

func TestAll_AppliesPopularityOnce(t *testing.T) {
	dir := &fakeDirectory{theatres: []domain.Theatre{{Name: "A"}, {Name: "B"}}}
	picker := &firstPicker{}
	svc := newTestService(dir, &fakeLedger{}, picker)

	got, err := svc.All(context.Background(), "2026-10-17")

	require.NoError(t, err)
	assert.Equal(t, []domain.TheatreAvailability{{Name: "A", Slots: 4}, {Name: "B", Slots: 5}}, got)
	assert.Equal(t, 2, picker.calls)
}

func TestAll_RepeatableWithoutPopularity(t *testing.T) {
	dir := &fakeDirectory{theatres: []domain.Theatre{{Name: "A"}, {Name: "B"}}}
	ledger := &fakeLedger{bookings: []domain.Booking{
		{TheatreName: "A", Datetime: time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC)},
	}}
	svc := newTestService(dir, ledger, nil)

	first, err := svc.All(context.Background(), "2026-10-12")
	require.NoError(t, err)
	second, err := svc.All(context.Background(), "2026-10-12")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []domain.TheatreAvailability{{Name: "A", Slots: 3}, {Name: "B", Slots: 4}}, first)
}

func TestAll_NoTheatres(t *testing.T) {
	svc := newTestService(&fakeDirectory{}, &fakeLedger{}, &firstPicker{})

	got, err := svc.All(context.Background(), "2026-10-12")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestAll_InvalidDate(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(&fakeDirectory{}, ledger, nil)

	for _, raw := range []string{"", "  ", "12/10/2026", "2026-13-01"} {
		_, err := svc.All(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidInput, raw)
		assert.NotErrorIs(t, err, ErrStorageFailure, raw)
	}
	assert.Empty(t, ledger.calls, "no storage read on invalid input")
}

func TestAll_StorageFailure(t *testing.T) {
	boom := errors.New("connection refused")

	_, err := newTestService(&fakeDirectory{err: boom}, &fakeLedger{}, nil).All(context.Background(), "2026-10-12")
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.ErrorIs(t, err, boom)

	_, err = newTestService(&fakeDirectory{}, &fakeLedger{err: boom}, nil).All(context.Background(), "2026-10-12")
	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestForTheatre_UsesFixedHoursWithoutPopularity(t *testing.T) {
	ledger := &fakeLedger{bookings: []domain.Booking{
		{TheatreName: "Royal", Datetime: time.Date(2026, 10, 12, 18, 0, 0, 0, time.UTC)},
		{TheatreName: "Other", Datetime: time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)},
	}}
	picker := &firstPicker{}
	svc := newTestService(&fakeDirectory{}, ledger, picker)

	res, err := svc.ForTheatre(context.Background(), "2026-10-12", " Royal ")

	require.NoError(t, err)
	assert.Equal(t, "Royal", res.Theatre)
	assert.Equal(t, []int{9, 12, 15, 21}, res.Hours(), "legacy mode closes at 24 on weekdays")
	assert.Zero(t, picker.calls)
	require.Len(t, ledger.calls, 1)
	assert.Equal(t, "Royal", ledger.calls[0].theatre)
}

func TestForTheatre_InvalidInput(t *testing.T) {
	svc := newTestService(&fakeDirectory{}, &fakeLedger{}, nil)

	_, err := svc.ForTheatre(context.Background(), "2026-10-12", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ForTheatre(context.Background(), "", "Royal")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestForTheatre_StorageFailure(t *testing.T) {
	svc := newTestService(&fakeDirectory{}, &fakeLedger{err: errors.New("timeout")}, nil)

	_, err := svc.ForTheatre(context.Background(), "2026-10-12", "Royal")
	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestParseDate_UsesLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	svc := New(&fakeDirectory{}, &fakeLedger{}, Config{Location: loc})

	day, err := svc.ParseDate("2026-10-17")

	require.NoError(t, err)
	assert.Equal(t, time.Saturday, day.Weekday())
	assert.Equal(t, loc, day.Location())

	from, to := svc.dayBounds(day)
	assert.Equal(t, 24*time.Hour, to.Sub(from))
}
