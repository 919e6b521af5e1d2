package store

import (
	"context"
	"fmt"

	"github.com/01moynul/glowbeauty-golang/internal/catalog"
	"github.com/01moynul/glowbeauty-golang/internal/models"
)

const shadeColumns = `id, name, color_code, value, is_active, sort_order, category_ids, subcategory_ids,
	product_ids, image_url, created_at, updated_at`

// ShadeFilter narrows ListShades. A shade passes the id filters when it is
// linked to any of the non-zero ids; with no ids every shade passes.
type ShadeFilter struct {
	ActiveOnly    bool
	CategoryID    int64
	SubcategoryID int64
	ProductID     int64
}

func scanShade(sc scanner) (*models.Shade, error) {
	var (
		sh                      models.Shade
		catIDs, subIDs, prodIDs string
	)
	err := sc.Scan(&sh.ID, &sh.Name, &sh.ColorCode, &sh.Value, &sh.IsActive, &sh.SortOrder,
		&catIDs, &subIDs, &prodIDs, &sh.ImageURL, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	sh.CategoryIDs = decodeIDs(catIDs)
	sh.SubcategoryIDs = decodeIDs(subIDs)
	sh.ProductIDs = decodeIDs(prodIDs)
	return &sh, nil
}

// ListShades returns shades in display order.
func (s *Store) ListShades(ctx context.Context, f ShadeFilter) ([]*models.Shade, error) {
	query := "SELECT " + shadeColumns + " FROM shades"
	var args []any
	if f.ActiveOnly {
		query += " WHERE is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY sort_order, name"

	rows, err := s.query(ctx, s.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shades: %w", err)
	}
	defer rows.Close()

	filtered := f.CategoryID != 0 || f.SubcategoryID != 0 || f.ProductID != 0
	shades := []*models.Shade{}
	for rows.Next() {
		sh, err := scanShade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shade: %w", err)
		}
		if filtered && !sh.AppliesTo(f.CategoryID, f.SubcategoryID, f.ProductID) {
			continue
		}
		shades = append(shades, sh)
	}
	return shades, rows.Err()
}

// GetShade returns ErrNotFound when no shade has the id.
func (s *Store) GetShade(ctx context.Context, id int64) (*models.Shade, error) {
	return scanShade(s.queryRow(ctx, s.DB, "SELECT "+shadeColumns+" FROM shades WHERE id = ?", id))
}

func normalizeShade(sh *models.Shade) {
	if sh.Value == "" {
		sh.Value = catalog.Slug(sh.Name)
	}
	if sh.CategoryIDs == nil {
		sh.CategoryIDs = []int64{}
	}
	if sh.SubcategoryIDs == nil {
		sh.SubcategoryIDs = []int64{}
	}
	if sh.ProductIDs == nil {
		sh.ProductIDs = []int64{}
	}
}

// CreateShade inserts sh. Value defaults to the slug of the name and must be
// unique.
func (s *Store) CreateShade(ctx context.Context, sh *models.Shade) error {
	normalizeShade(sh)
	now := s.now()
	sh.CreatedAt, sh.UpdatedAt = now, now

	id, err := s.insert(ctx, s.DB, `
		INSERT INTO shades
		(name, color_code, value, is_active, sort_order, category_ids, subcategory_ids, product_ids,
		 image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.Name, sh.ColorCode, sh.Value, sh.IsActive, sh.SortOrder, encodeJSON(sh.CategoryIDs),
		encodeJSON(sh.SubcategoryIDs), encodeJSON(sh.ProductIDs), sh.ImageURL, sh.CreatedAt, sh.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create shade: %w", err)
	}
	sh.ID = id
	return nil
}

// UpdateShade overwrites the editable columns of sh.
func (s *Store) UpdateShade(ctx context.Context, sh *models.Shade) error {
	normalizeShade(sh)
	sh.UpdatedAt = s.now()
	return mustAffect(s.exec(ctx, s.DB, `
		UPDATE shades SET name = ?, color_code = ?, value = ?, is_active = ?, sort_order = ?,
			category_ids = ?, subcategory_ids = ?, product_ids = ?, image_url = ?, updated_at = ?
		WHERE id = ?`,
		sh.Name, sh.ColorCode, sh.Value, sh.IsActive, sh.SortOrder, encodeJSON(sh.CategoryIDs),
		encodeJSON(sh.SubcategoryIDs), encodeJSON(sh.ProductIDs), sh.ImageURL, sh.UpdatedAt, sh.ID))
}

// DeleteShade removes one shade.
func (s *Store) DeleteShade(ctx context.Context, id int64) error {
	return mustAffect(s.exec(ctx, s.DB, "DELETE FROM shades WHERE id = ?", id))
}
