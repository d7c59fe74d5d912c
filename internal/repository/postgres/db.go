package postgresrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is satisfied by both *pgxpool.Pool and pgx.Tx, so repositories run
// the same queries inside or outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping checks that a pooled connection can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// txOptions fills in read-committed read-write when opts is nil.
func txOptions(opts *pgx.TxOptions) pgx.TxOptions {
	if opts == nil {
		return pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}
	}
	out := *opts
	if out.IsoLevel == "" {
		out.IsoLevel = pgx.ReadCommitted
	}
	if out.AccessMode == "" {
		out.AccessMode = pgx.ReadWrite
	}
	return out
}

// RunTx commits when fn returns nil and rolls back otherwise. The rollback
// still runs if ctx was cancelled mid-transaction.
func (s *Store) RunTx(ctx context.Context, opts *pgx.TxOptions, fn func(ctx context.Context, tx DB) error) error {
	tx, err := s.pool.BeginTx(ctx, txOptions(opts))
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Theatres() *TheatreRepo { return &TheatreRepo{pool: s.pool} }
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{pool: s.pool} }
func (s *Store) Catalog() *CatalogRepo  { return &CatalogRepo{pool: s.pool} }
func (s *Store) Contacts() *ContactRepo { return &ContactRepo{pool: s.pool} }
