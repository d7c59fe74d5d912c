package admin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kirinyoku/theatrego/internal/domain"
	"github.com/kirinyoku/theatrego/internal/repository"
)

func TestMapErr(t *testing.T) {
	notFound := fmt.Errorf("op: %w", repository.ErrNotFound)
	conflict := fmt.Errorf("op: %w", repository.ErrConflict)
	other := errors.New("boom")

	assert.ErrorIs(t, mapErr(notFound, ErrTheatreNotFound, ErrTheatreConflict), ErrTheatreNotFound)
	assert.ErrorIs(t, mapErr(conflict, ErrTheatreNotFound, ErrTheatreConflict), ErrTheatreConflict)
	assert.ErrorIs(t, mapErr(conflict, ErrAddonNotFound, nil), repository.ErrConflict)
	assert.Equal(t, other, mapErr(other, ErrAddonNotFound, nil))
}

func TestValidateTheatre(t *testing.T) {
	th := domain.Theatre{Name: "  Royal  ", Price: 1499}
	assert.NoError(t, validateTheatre(&th))
	assert.Equal(t, "Royal", th.Name)

	assert.ErrorIs(t, validateTheatre(&domain.Theatre{Name: " "}), ErrInvalidTheatre)
	assert.ErrorIs(t, validateTheatre(&domain.Theatre{Name: "Royal", Price: -1}), ErrInvalidTheatre)
}

func TestValidatePackageAndAddon(t *testing.T) {
	assert.NoError(t, validatePackage(&domain.Package{Name: "Birthday", Price: 999, OriginalPrice: 1299}))
	assert.ErrorIs(t, validatePackage(&domain.Package{}), ErrInvalidPackage)
	assert.ErrorIs(t, validatePackage(&domain.Package{Name: "x", OriginalPrice: -5}), ErrInvalidPackage)

	assert.NoError(t, validateAddon(&domain.Addon{Name: "Cake", Price: 500}))
	assert.ErrorIs(t, validateAddon(&domain.Addon{Name: ""}), ErrInvalidAddon)
	assert.ErrorIs(t, validateAddon(&domain.Addon{Name: "Cake", Price: -1}), ErrInvalidAddon)
}

func TestCreateTheatre_RejectsInvalidBeforeStorage(t *testing.T) {
	svc := New(nil, nil, nil, nil)

	_, err := svc.CreateTheatre(context.Background(), domain.Theatre{})

	assert.ErrorIs(t, err, ErrInvalidTheatre)
}

func TestCatalogChanged_NoBackends(t *testing.T) {
	svc := New(nil, nil, nil, nil)

	assert.NotPanics(t, func() { svc.catalogChanged(EntityAddon)(context.Background()) })
}
