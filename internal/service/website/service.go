package website

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/theatrego/internal/domain"
	redisrepo "github.com/kirinyoku/theatrego/internal/repository/redis"
)

type Config struct {
	DataTTL time.Duration
}

type TheatreLister interface {
	ListActiveTheatres(ctx context.Context) ([]domain.Theatre, error)
}

// CatalogLister lists packages, addons and gallery images, only active ones
// when onlyActive is set.
type CatalogLister interface {
	ListPackages(ctx context.Context, onlyActive bool) ([]domain.Package, error)
	ListAddons(ctx context.Context, onlyActive bool) ([]domain.Addon, error)
	ListGalleryImages(ctx context.Context, onlyActive bool) ([]domain.GalleryImage, error)
}

type Service struct {
	theatres TheatreLister
	catalog  CatalogLister
	cache    *redisrepo.Cache
	cfg      Config
}

// New builds the service. A nil cache loads from storage on every call.
func New(theatres TheatreLister, catalog CatalogLister, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.DataTTL <= 0 {
		cfg.DataTTL = 60 * time.Second
	}

	return &Service{
		theatres: theatres,
		catalog:  catalog,
		cache:    cache,
		cfg:      cfg,
	}
}

// Data returns every active theatre, package, addon and gallery image,
// served from cache when possible.
//
// Parameters:
//   - ctx: request-scoped context.
//
// Returns:
//   - *domain.WebsiteData: the public catalog.
//   - error: any storage error from the four underlying reads.
func (s *Service) Data(ctx context.Context) (*domain.WebsiteData, error) {
	const op = "service.website.Data"

	data, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeyWebsiteData(), s.cfg.DataTTL, s.load)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &data, nil
}

// Refresh drops the cached catalog and loads it again.
func (s *Service) Refresh(ctx context.Context) error {
	const op = "service.website.Refresh"

	if err := s.cache.InvalidateWebsite(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.Data(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) load(ctx context.Context) (domain.WebsiteData, error) {
	var out domain.WebsiteData

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.theatres.ListActiveTheatres(gCtx)
		out.Theatres = v
		return err
	})
	g.Go(func() error {
		v, err := s.catalog.ListPackages(gCtx, true)
		out.Packages = v
		return err
	})
	g.Go(func() error {
		v, err := s.catalog.ListAddons(gCtx, true)
		out.Addons = v
		return err
	})
	g.Go(func() error {
		v, err := s.catalog.ListGalleryImages(gCtx, true)
		out.GalleryImages = v
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.WebsiteData{}, err
	}

	return out, nil
}
