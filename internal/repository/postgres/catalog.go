package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/theatrego/internal/domain"
)

// CatalogRepo holds what the website sells besides theatres: packages, addons
// and gallery images.
type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const (
	packageColumns = `id, name, COALESCE(price, 0), COALESCE(original_price, 0),
		COALESCE(description, ''), COALESCE(items, '{}'), is_active`
	addonColumns   = `id, name, COALESCE(description, ''), COALESCE(price, 0), is_active`
	galleryColumns = `id, image_url, COALESCE(caption, ''), is_active, created_at`
)

func scanPackage(row pgx.Row, p *domain.Package) error {
	return row.Scan(&p.ID, &p.Name, &p.Price, &p.OriginalPrice, &p.Description, &p.Items, &p.Active)
}

func scanAddon(row pgx.Row, a *domain.Addon) error {
	return row.Scan(&a.ID, &a.Name, &a.Description, &a.Price, &a.Active)
}

func scanGalleryImage(row pgx.Row, g *domain.GalleryImage) error {
	return row.Scan(&g.ID, &g.ImageURL, &g.Caption, &g.Active, &g.CreatedAt)
}

// collect reads every row with scan and always returns a non-nil slice.
func collect[T any](rows pgx.Rows, scan func(pgx.Row, *T) error) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, rows.Err()
}

// --- packages ---

func (r *CatalogRepo) ListPackages(ctx context.Context, onlyActive bool) ([]domain.Package, error) {
	const op = "postgresrepo.CatalogRepo.ListPackages"

	rows, err := r.handle().Query(ctx,
		`SELECT `+packageColumns+`
		 FROM packages
		 WHERE is_active OR NOT $1
		 ORDER BY id`,
		onlyActive,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collect(rows, scanPackage)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) CreatePackage(ctx context.Context, p domain.Package) (*domain.Package, error) {
	const op = "postgresrepo.CatalogRepo.CreatePackage"

	var out domain.Package
	err := scanPackage(r.handle().QueryRow(ctx,
		`INSERT INTO packages(name, price, original_price, description, items, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+packageColumns,
		p.Name, p.Price, p.OriginalPrice, p.Description, nonNil(p.Items), p.Active,
	), &out)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *CatalogRepo) UpdatePackage(ctx context.Context, p domain.Package) (*domain.Package, error) {
	const op = "postgresrepo.CatalogRepo.UpdatePackage"

	var out domain.Package
	err := scanPackage(r.handle().QueryRow(ctx,
		`UPDATE packages
		 SET name = $1, price = $2, original_price = $3, description = $4, items = $5, is_active = $6
		 WHERE id = $7
		 RETURNING `+packageColumns,
		p.Name, p.Price, p.OriginalPrice, p.Description, nonNil(p.Items), p.Active, p.ID,
	), &out)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *CatalogRepo) DeletePackage(ctx context.Context, id int64) error {
	const op = "postgresrepo.CatalogRepo.DeletePackage"

	tag, err := r.handle().Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)

	return expectOne(op, tag, err)
}

// --- addons ---

func (r *CatalogRepo) ListAddons(ctx context.Context, onlyActive bool) ([]domain.Addon, error) {
	const op = "postgresrepo.CatalogRepo.ListAddons"

	rows, err := r.handle().Query(ctx,
		`SELECT `+addonColumns+`
		 FROM addons
		 WHERE is_active OR NOT $1
		 ORDER BY id`,
		onlyActive,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collect(rows, scanAddon)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) CreateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error) {
	const op = "postgresrepo.CatalogRepo.CreateAddon"

	var out domain.Addon
	err := scanAddon(r.handle().QueryRow(ctx,
		`INSERT INTO addons(name, description, price, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+addonColumns,
		a.Name, a.Description, a.Price, a.Active,
	), &out)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *CatalogRepo) UpdateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error) {
	const op = "postgresrepo.CatalogRepo.UpdateAddon"

	var out domain.Addon
	err := scanAddon(r.handle().QueryRow(ctx,
		`UPDATE addons
		 SET name = $1, description = $2, price = $3, is_active = $4
		 WHERE id = $5
		 RETURNING `+addonColumns,
		a.Name, a.Description, a.Price, a.Active, a.ID,
	), &out)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *CatalogRepo) DeleteAddon(ctx context.Context, id int64) error {
	const op = "postgresrepo.CatalogRepo.DeleteAddon"

	tag, err := r.handle().Exec(ctx, `DELETE FROM addons WHERE id = $1`, id)

	return expectOne(op, tag, err)
}

// --- gallery ---

// ListGalleryImages returns gallery images, newest first.
func (r *CatalogRepo) ListGalleryImages(ctx context.Context, onlyActive bool) ([]domain.GalleryImage, error) {
	const op = "postgresrepo.CatalogRepo.ListGalleryImages"

	rows, err := r.handle().Query(ctx,
		`SELECT `+galleryColumns+`
		 FROM gallery_images
		 WHERE is_active OR NOT $1
		 ORDER BY id DESC`,
		onlyActive,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collect(rows, scanGalleryImage)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) DeleteGalleryImage(ctx context.Context, id int64) error {
	const op = "postgresrepo.CatalogRepo.DeleteGalleryImage"

	tag, err := r.handle().Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)

	return expectOne(op, tag, err)
}
