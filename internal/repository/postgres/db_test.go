package postgresrepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/kirinyoku/theatrego/internal/repository"
)

func TestTxOptions(t *testing.T) {
	def := txOptions(nil)
	assert.Equal(t, pgx.ReadCommitted, def.IsoLevel)
	assert.Equal(t, pgx.ReadWrite, def.AccessMode)

	ser := txOptions(&pgx.TxOptions{IsoLevel: pgx.Serializable})
	assert.Equal(t, pgx.Serializable, ser.IsoLevel)
	assert.Equal(t, pgx.ReadWrite, ser.AccessMode)

	ro := txOptions(&pgx.TxOptions{AccessMode: pgx.ReadOnly, DeferrableMode: pgx.Deferrable})
	assert.Equal(t, pgx.ReadCommitted, ro.IsoLevel)
	assert.Equal(t, pgx.ReadOnly, ro.AccessMode)
	assert.Equal(t, pgx.Deferrable, ro.DeferrableMode)
}

func TestWrapDBErr(t *testing.T) {
	assert.NoError(t, wrapDBErr("op", nil))

	err := wrapDBErr("repo.Get", pgx.ErrNoRows)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "repo.Get")

	err = wrapDBErr("repo.Create", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	other := errors.New("boom")
	assert.ErrorIs(t, wrapDBErr("op", other), other)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsRetryable(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"})))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("boom")))
}

func TestExpectOne(t *testing.T) {
	assert.NoError(t, expectOne("op", pgconn.NewCommandTag("UPDATE 1"), nil))
	assert.ErrorIs(t, expectOne("op", pgconn.NewCommandTag("DELETE 0"), nil), repository.ErrNotFound)
	assert.ErrorIs(t, expectOne("op", pgconn.CommandTag{}, pgx.ErrNoRows), repository.ErrNotFound)
}
