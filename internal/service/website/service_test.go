package website

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/theatrego/internal/domain"
)

type fakeTheatres struct {
	theatres []domain.Theatre
	err      error
	calls    atomic.Int32
}

func (f *fakeTheatres) ListActiveTheatres(context.Context) ([]domain.Theatre, error) {
	f.calls.Add(1)
	return f.theatres, f.err
}

type fakeCatalog struct {
	onlyActive atomic.Int32
}

func (f *fakeCatalog) ListPackages(_ context.Context, onlyActive bool) ([]domain.Package, error) {
	if onlyActive {
		f.onlyActive.Add(1)
	}
	return []domain.Package{{ID: 1, Name: "Birthday"}}, nil
}

func (f *fakeCatalog) ListAddons(_ context.Context, onlyActive bool) ([]domain.Addon, error) {
	if onlyActive {
		f.onlyActive.Add(1)
	}
	return []domain.Addon{{ID: 2, Name: "Cake"}}, nil
}

func (f *fakeCatalog) ListGalleryImages(_ context.Context, onlyActive bool) ([]domain.GalleryImage, error) {
	if onlyActive {
		f.onlyActive.Add(1)
	}
	return []domain.GalleryImage{{ID: 3}}, nil
}

func TestData_LoadsEverySectionWithoutCache(t *testing.T) {
	th := &fakeTheatres{theatres: []domain.Theatre{{ID: 1, Name: "Royal"}}}
	cat := &fakeCatalog{}
	svc := New(th, cat, nil, Config{})

	data, err := svc.Data(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Theatre{{ID: 1, Name: "Royal"}}, data.Theatres)
	assert.Equal(t, []domain.Package{{ID: 1, Name: "Birthday"}}, data.Packages)
	assert.Equal(t, []domain.Addon{{ID: 2, Name: "Cake"}}, data.Addons)
	assert.Equal(t, []domain.GalleryImage{{ID: 3}}, data.GalleryImages)
	assert.Equal(t, int32(3), cat.onlyActive.Load())
	assert.Equal(t, 60*time.Second, svc.cfg.DataTTL)
}

func TestRefresh_NilCacheReloads(t *testing.T) {
	th := &fakeTheatres{}
	svc := New(th, &fakeCatalog{}, nil, Config{DataTTL: time.Minute})

	require.NoError(t, svc.Refresh(context.Background()))
	require.NoError(t, svc.Refresh(context.Background()))

	assert.Equal(t, int32(2), th.calls.Load())
}

func TestRefresh_StorageError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := New(&fakeTheatres{err: boom}, &fakeCatalog{}, nil, Config{})

	err := svc.Refresh(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "service.website.Refresh")
}
