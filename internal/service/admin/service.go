package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirinyoku/theatrego/internal/domain"
	"github.com/kirinyoku/theatrego/internal/repository"
	postgresrepo "github.com/kirinyoku/theatrego/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/theatrego/internal/repository/redis"
	"github.com/kirinyoku/theatrego/internal/uow"
)

// Catalog entity names carried on the catalog-changed channel.
const (
	EntityTheatre = "theatre"
	EntityPackage = "package"
	EntityAddon   = "addon"
	EntityGallery = "gallery"
)

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.CatalogPubSub
	logger *slog.Logger
	uow    *uow.UoW
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.CatalogPubSub,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		logger: logger,
		uow:    uow.NewUoW(store),
	}
}

func (s *Service) ListTheatres(ctx context.Context) ([]domain.Theatre, error) {
	const op = "service.admin.ListTheatres"

	out, err := s.store.Theatres().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// CreateTheatre adds a theatre to the catalog.
//
// Parameters:
//   - ctx: request-scoped context.
//   - t: the theatre to create; ID and CreatedAt are ignored.
//
// Returns:
//   - *domain.Theatre: the stored theatre.
//   - error: admin.ErrInvalidTheatre if name is blank or price is negative.
//   - error: admin.ErrTheatreConflict if a theatre with the same name exists.
func (s *Service) CreateTheatre(ctx context.Context, t domain.Theatre) (*domain.Theatre, error) {
	const op = "service.admin.CreateTheatre"

	if err := validateTheatre(&t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out *domain.Theatre
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		out, err = s.store.Theatres().With(tx).Create(ctx, t)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrTheatreConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		after(s.catalogChanged(EntityTheatre))
		return nil
	})

	return out, err
}

// UpdateTheatre replaces the editable fields of theatre t.ID. Images are
// left untouched.
func (s *Service) UpdateTheatre(ctx context.Context, t domain.Theatre) (*domain.Theatre, error) {
	const op = "service.admin.UpdateTheatre"

	if err := validateTheatre(&t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out *domain.Theatre
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		out, err = s.store.Theatres().With(tx).Update(ctx, t)
		if err != nil {
			return fmt.Errorf("%s: %w", op, mapErr(err, ErrTheatreNotFound, ErrTheatreConflict))
		}

		after(s.catalogChanged(EntityTheatre))
		return nil
	})

	return out, err
}

func (s *Service) DeleteTheatre(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteTheatre"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Theatres().With(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, mapErr(err, ErrTheatreNotFound, nil))
		}

		after(s.catalogChanged(EntityTheatre))
		return nil
	})
}

func (s *Service) ListPackages(ctx context.Context) ([]domain.Package, error) {
	const op = "service.admin.ListPackages"

	out, err := s.store.Catalog().ListPackages(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) CreatePackage(ctx context.Context, p domain.Package) (*domain.Package, error) {
	const op = "service.admin.CreatePackage"

	if err := validatePackage(&p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out *domain.Package
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		out, err = s.store.Catalog().With(tx).CreatePackage(ctx, p)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(s.catalogChanged(EntityPackage))
		return nil
	})

	return out, err
}

func (s *Service) UpdatePackage(ctx context.Context, p domain.Package) (*domain.Package, error) {
	const op = "service.admin.UpdatePackage"

	if err := validatePackage(&p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out *domain.Package
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		out, err = s.store.Catalog().With(tx).UpdatePackage(ctx, p)
		if err != nil {
			return fmt.Errorf("%s: %w", op, mapErr(err, ErrPackageNotFound, nil))
		}

		after(s.catalogChanged(EntityPackage))
		return nil
	})

	return out, err
}

func (s *Service) DeletePackage(ctx context.Context, id int64) error {
	const op = "service.admin.DeletePackage"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Catalog().With(tx).DeletePackage(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, mapErr(err, ErrPackageNotFound, nil))
		}

		after(s.catalogChanged(EntityPackage))
		return nil
	})
}

func (s *Service) ListAddons(ctx context.Context) ([]domain.Addon, error) {
	const op = "service.admin.ListAddons"

	out, err := s.store.Catalog().ListAddons(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) CreateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error) {
	const op = "service.admin.CreateAddon"

	if err := validateAddon(&a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out *domain.Addon
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		out, err = s.store.Catalog().With(tx).CreateAddon(ctx, a)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(s.catalogChanged(EntityAddon))
		return nil
	})

	return out, err
}

func (s *Service) UpdateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error) {
	const op = "service.admin.UpdateAddon"

	if err := validateAddon(&a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out *domain.Addon
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		out, err = s.store.Catalog().With(tx).UpdateAddon(ctx, a)
		if err != nil {
			return fmt.Errorf("%s: %w", op, mapErr(err, ErrAddonNotFound, nil))
		}

		after(s.catalogChanged(EntityAddon))
		return nil
	})

	return out, err
}

func (s *Service) DeleteAddon(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteAddon"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Catalog().With(tx).DeleteAddon(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, mapErr(err, ErrAddonNotFound, nil))
		}

		after(s.catalogChanged(EntityAddon))
		return nil
	})
}

func (s *Service) ListGalleryImages(ctx context.Context) ([]domain.GalleryImage, error) {
	const op = "service.admin.ListGalleryImages"

	out, err := s.store.Catalog().ListGalleryImages(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) DeleteGalleryImage(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteGalleryImage"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Catalog().With(tx).DeleteGalleryImage(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, mapErr(err, ErrGalleryImageNotFound, nil))
		}

		after(s.catalogChanged(EntityGallery))
		return nil
	})
}

// catalogChanged drops the cached website data and tells other instances
// that entity changed.
func (s *Service) catalogChanged(entity string) uow.AfterCommit {
	return func(ctx context.Context) {
		if s.cache != nil {
			if err := s.cache.InvalidateWebsite(ctx); err != nil {
				s.logger.Warn("invalidate website cache", "entity", entity, "error", err)
			}
		}
		if s.pubsub != nil {
			if err := s.pubsub.PublishCatalogChanged(ctx, entity); err != nil {
				s.logger.Warn("publish catalog changed", "entity", entity, "error", err)
			}
		}
	}
}

// mapErr swaps repository sentinels for the entity specific ones. A nil
// conflict keeps repository.ErrConflict as is.
func mapErr(err, notFound, conflict error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case conflict != nil && errors.Is(err, repository.ErrConflict):
		return conflict
	}
	return err
}

func validateTheatre(t *domain.Theatre) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTheatre)
	}
	if t.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidTheatre)
	}
	return nil
}

func validatePackage(p *domain.Package) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPackage)
	}
	if p.Price < 0 || p.OriginalPrice < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidPackage)
	}
	return nil
}

func validateAddon(a *domain.Addon) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAddon)
	}
	if a.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidAddon)
	}
	return nil
}
