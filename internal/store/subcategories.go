package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

// ErrUnknownCategory is returned when a subcategory names a missing parent.
var ErrUnknownCategory = errors.New("category does not exist")

const subcategoryColumns = `s.id, s.name, s.slug, s.description, s.category_id, s.status,
	s.product_count, s.created_at, c.name`

func scanSubcategory(sc scanner) (*models.Subcategory, error) {
	var sub models.Subcategory
	err := sc.Scan(&sub.ID, &sub.Name, &sub.Slug, &sub.Description, &sub.CategoryID, &sub.Status,
		&sub.ProductCount, &sub.CreatedAt, &sub.CategoryName)
	if err != nil {
		return nil, mapErr(err)
	}
	return &sub, nil
}

// ListSubcategories returns subcategories by name. A zero categoryID lists
// every category.
func (s *Store) ListSubcategories(ctx context.Context, categoryID int64, activeOnly bool) ([]*models.Subcategory, error) {
	query := "SELECT " + subcategoryColumns + " FROM subcategories s JOIN categories c ON c.id = s.category_id WHERE 1 = 1"
	var args []any
	if categoryID != 0 {
		query += " AND s.category_id = ?"
		args = append(args, categoryID)
	}
	if activeOnly {
		query += " AND s.status = ?"
		args = append(args, models.StatusActive)
	}
	query += " ORDER BY s.name"

	rows, err := s.query(ctx, s.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	subs := []*models.Subcategory{}
	for rows.Next() {
		sub, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// GetSubcategory returns ErrNotFound when no subcategory has the id.
func (s *Store) GetSubcategory(ctx context.Context, id int64) (*models.Subcategory, error) {
	return scanSubcategory(s.queryRow(ctx, s.DB,
		"SELECT "+subcategoryColumns+" FROM subcategories s JOIN categories c ON c.id = s.category_id WHERE s.id = ?", id))
}

func (s *Store) categoryExists(ctx context.Context, id int64) error {
	var n int
	if err := s.queryRow(ctx, s.DB, "SELECT COUNT(*) FROM categories WHERE id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownCategory
	}
	return nil
}

// CreateSubcategory inserts sub under an existing category.
func (s *Store) CreateSubcategory(ctx context.Context, sub *models.Subcategory) error {
	if err := s.categoryExists(ctx, sub.CategoryID); err != nil {
		return err
	}
	if sub.Slug == "" {
		slug, err := s.uniqueSlug(ctx, s.DB, "subcategories", sub.Name, 0)
		if err != nil {
			return fmt.Errorf("subcategory slug: %w", err)
		}
		sub.Slug = slug
	}
	if sub.Status == "" {
		sub.Status = models.StatusActive
	}
	sub.CreatedAt = s.now()

	id, err := s.insert(ctx, s.DB, `
		INSERT INTO subcategories (name, slug, description, category_id, status, product_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.Name, sub.Slug, sub.Description, sub.CategoryID, sub.Status, 0, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("create subcategory: %w", err)
	}
	sub.ID = id
	return s.RefreshProductCounts(ctx)
}

// UpdateSubcategory overwrites the editable columns of sub.
func (s *Store) UpdateSubcategory(ctx context.Context, sub *models.Subcategory) error {
	if err := s.categoryExists(ctx, sub.CategoryID); err != nil {
		return err
	}
	if sub.Slug == "" {
		slug, err := s.uniqueSlug(ctx, s.DB, "subcategories", sub.Name, sub.ID)
		if err != nil {
			return fmt.Errorf("subcategory slug: %w", err)
		}
		sub.Slug = slug
	}
	if sub.Status == "" {
		sub.Status = models.StatusActive
	}
	err := mustAffect(s.exec(ctx, s.DB, `
		UPDATE subcategories SET name = ?, slug = ?, description = ?, category_id = ?, status = ?
		WHERE id = ?`,
		sub.Name, sub.Slug, sub.Description, sub.CategoryID, sub.Status, sub.ID))
	if err != nil {
		return err
	}
	return s.RefreshProductCounts(ctx)
}

// DeleteSubcategory removes one subcategory.
func (s *Store) DeleteSubcategory(ctx context.Context, id int64) error {
	return mustAffect(s.exec(ctx, s.DB, "DELETE FROM subcategories WHERE id = ?", id))
}
