package postgresrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/theatrego/internal/domain"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const bookingColumns = `id, name, phone, theatre_name, COALESCE(package_name, ''), party_size,
		datetime, COALESCE(selected_addons, ''), COALESCE(requests, ''), status, created_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	var status string
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Phone,
		&b.TheatreName,
		&b.PackageName,
		&b.PartySize,
		&b.Datetime,
		&b.SelectedAddons,
		&b.Requests,
		&status,
		&b.CreatedAt,
	); err != nil {
		return err
	}
	b.Status = domain.BookingStatus(status)
	return nil
}

// ListBookingsBetween returns the theatre name and start of every booking with
// from <= datetime < to.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - from, to: half-open time range.
//
// Returns:
//   - []domain.Booking: bookings with TheatreName and Datetime set.
//   - error: any driver error wrapped with the operation name.
func (r *BookingRepo) ListBookingsBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.ListBookingsBetween"

	return r.listStarts(ctx, op,
		`SELECT theatre_name, datetime
		 FROM bookings
		 WHERE datetime >= $1 AND datetime < $2`,
		from, to,
	)
}

// ListTheatreBookingsBetween is ListBookingsBetween restricted to one theatre.
func (r *BookingRepo) ListTheatreBookingsBetween(
	ctx context.Context,
	theatreName string,
	from, to time.Time,
) ([]domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.ListTheatreBookingsBetween"

	return r.listStarts(ctx, op,
		`SELECT theatre_name, datetime
		 FROM bookings
		 WHERE theatre_name = $1 AND datetime >= $2 AND datetime < $3`,
		theatreName, from, to,
	)
}

func (r *BookingRepo) listStarts(ctx context.Context, op, sql string, args ...any) ([]domain.Booking, error) {
	db := r.handle()

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.TheatreName, &b.Datetime); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *BookingRepo) Create(ctx context.Context, in domain.NewBooking) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.Create"

	db := r.handle()

	var b domain.Booking
	err := scanBooking(db.QueryRow(ctx,
		`INSERT INTO bookings(name, phone, theatre_name, package_name, party_size,
		                      datetime, selected_addons, requests)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+bookingColumns,
		in.Name,
		in.Phone,
		in.TheatreName,
		in.PackageName,
		in.PartySize,
		in.Datetime,
		in.SelectedAddons,
		in.Requests,
	), &b)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

// List returns all bookings, newest submission first.
func (r *BookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *BookingRepo) UpdateStatus(
	ctx context.Context,
	id int64,
	status domain.BookingStatus,
) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.UpdateStatus"

	db := r.handle()

	var b domain.Booking
	err := scanBooking(db.QueryRow(ctx,
		`UPDATE bookings SET status = $1
		 WHERE id = $2
		 RETURNING `+bookingColumns,
		string(status), id,
	), &b)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}
