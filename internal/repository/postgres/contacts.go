package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/theatrego/internal/domain"
)

type ContactRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ContactRepo) With(db DB) *ContactRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ContactRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func scanContact(row pgx.Row, c *domain.Contact) error {
	return row.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.CreatedAt)
}

func (r *ContactRepo) Create(ctx context.Context, name, email, message string) (*domain.Contact, error) {
	const op = "postgresrepo.ContactRepo.Create"

	var c domain.Contact
	err := scanContact(r.handle().QueryRow(ctx,
		`INSERT INTO contacts(name, email, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, email, message, created_at`,
		name, email, message,
	), &c)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &c, nil
}

// List returns all contact inquiries, newest first.
func (r *ContactRepo) List(ctx context.Context) ([]domain.Contact, error) {
	const op = "postgresrepo.ContactRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT id, name, email, message, created_at
		 FROM contacts
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collect(rows, scanContact)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
