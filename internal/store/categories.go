package store

import (
	"context"
	"fmt"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

const categoryColumns = "id, name, slug, description, image_url, status, product_count, created_at"

func scanCategory(sc scanner) (*models.Category, error) {
	var c models.Category
	err := sc.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.Status, &c.ProductCount, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

// ListCategories returns categories by name. withSubs attaches each
// category's subcategories.
func (s *Store) ListCategories(ctx context.Context, activeOnly, withSubs bool) ([]*models.Category, error) {
	query := "SELECT " + categoryColumns + " FROM categories"
	var args []any
	if activeOnly {
		query += " WHERE status = ?"
		args = append(args, models.StatusActive)
	}
	query += " ORDER BY name"

	rows, err := s.query(ctx, s.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if !withSubs || len(categories) == 0 {
		return categories, nil
	}

	subs, err := s.ListSubcategories(ctx, 0, activeOnly)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Category, len(categories))
	for _, c := range categories {
		c.Subcategories = []models.Subcategory{}
		byID[c.ID] = c
	}
	for _, sub := range subs {
		if c, ok := byID[sub.CategoryID]; ok {
			c.Subcategories = append(c.Subcategories, *sub)
		}
	}
	return categories, nil
}

// GetCategoryByID returns ErrNotFound when no category has the id.
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	return scanCategory(s.queryRow(ctx, s.DB, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
}

// GetCategoryBySlug returns ErrNotFound when no category has the slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return scanCategory(s.queryRow(ctx, s.DB, "SELECT "+categoryColumns+" FROM categories WHERE slug = ?", slug))
}

// CreateCategory inserts c. The slug is derived from the name when empty.
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.Slug == "" {
		slug, err := s.uniqueSlug(ctx, s.DB, "categories", c.Name, 0)
		if err != nil {
			return fmt.Errorf("category slug: %w", err)
		}
		c.Slug = slug
	}
	if c.Status == "" {
		c.Status = models.StatusActive
	}
	c.CreatedAt = s.now()

	id, err := s.insert(ctx, s.DB, `
		INSERT INTO categories (name, slug, description, image_url, status, product_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Slug, c.Description, c.ImageURL, c.Status, 0, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	c.ID = id
	return s.RefreshProductCounts(ctx)
}

// UpdateCategory overwrites the editable columns of c.
func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	if c.Slug == "" {
		slug, err := s.uniqueSlug(ctx, s.DB, "categories", c.Name, c.ID)
		if err != nil {
			return fmt.Errorf("category slug: %w", err)
		}
		c.Slug = slug
	}
	if c.Status == "" {
		c.Status = models.StatusActive
	}
	err := mustAffect(s.exec(ctx, s.DB, `
		UPDATE categories SET name = ?, slug = ?, description = ?, image_url = ?, status = ?
		WHERE id = ?`,
		c.Name, c.Slug, c.Description, c.ImageURL, c.Status, c.ID))
	if err != nil {
		return err
	}
	return s.RefreshProductCounts(ctx)
}

// DeleteCategory removes a category and, by cascade, its subcategories.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return mustAffect(s.exec(ctx, s.DB, "DELETE FROM categories WHERE id = ?", id))
}
