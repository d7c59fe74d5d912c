package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/theatrego/internal/domain"
)

type TheatreRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TheatreRepo) With(db DB) *TheatreRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TheatreRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const theatreColumns = `id, name, COALESCE(subtitle, ''), COALESCE(description, ''),
		COALESCE(details, '{}'), COALESCE(price, 0), COALESCE(images, '{}'), is_active, created_at`

func scanTheatre(row pgx.Row, t *domain.Theatre) error {
	return row.Scan(
		&t.ID,
		&t.Name,
		&t.Subtitle,
		&t.Description,
		&t.Details,
		&t.Price,
		&t.Images,
		&t.Active,
		&t.CreatedAt,
	)
}

// ListActiveTheatres returns the theatres currently open for booking, ordered by id.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//
// Returns:
//   - []domain.Theatre: active theatres, possibly empty.
//   - error: any driver error wrapped with the operation name.
func (r *TheatreRepo) ListActiveTheatres(ctx context.Context) ([]domain.Theatre, error) {
	const op = "postgresrepo.TheatreRepo.ListActiveTheatres"

	return r.list(ctx, op,
		`SELECT `+theatreColumns+`
		 FROM theatres
		 WHERE is_active = true
		 ORDER BY id`,
	)
}

// List returns every theatre, active or not, ordered by id.
func (r *TheatreRepo) List(ctx context.Context) ([]domain.Theatre, error) {
	const op = "postgresrepo.TheatreRepo.List"

	return r.list(ctx, op,
		`SELECT `+theatreColumns+`
		 FROM theatres
		 ORDER BY id`,
	)
}

func (r *TheatreRepo) list(ctx context.Context, op, sql string, args ...any) ([]domain.Theatre, error) {
	db := r.handle()

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	out := []domain.Theatre{}
	for rows.Next() {
		var t domain.Theatre
		if err := scanTheatre(rows, &t); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *TheatreRepo) Create(ctx context.Context, t domain.Theatre) (*domain.Theatre, error) {
	const op = "postgresrepo.TheatreRepo.Create"

	db := r.handle()

	var out domain.Theatre
	err := scanTheatre(db.QueryRow(ctx,
		`INSERT INTO theatres(name, subtitle, description, details, price, images, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+theatreColumns,
		t.Name, t.Subtitle, t.Description, nonNil(t.Details), t.Price, nonNil(t.Images), t.Active,
	), &out)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *TheatreRepo) Update(ctx context.Context, t domain.Theatre) (*domain.Theatre, error) {
	const op = "postgresrepo.TheatreRepo.Update"

	db := r.handle()

	var out domain.Theatre
	err := scanTheatre(db.QueryRow(ctx,
		`UPDATE theatres
		 SET name = $1, subtitle = $2, description = $3, details = $4, price = $5, is_active = $6
		 WHERE id = $7
		 RETURNING `+theatreColumns,
		t.Name, t.Subtitle, t.Description, nonNil(t.Details), t.Price, t.Active, t.ID,
	), &out)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *TheatreRepo) Delete(ctx context.Context, id int64) error {
	const op = "postgresrepo.TheatreRepo.Delete"

	tag, err := r.handle().Exec(ctx, `DELETE FROM theatres WHERE id = $1`, id)

	return expectOne(op, tag, err)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
