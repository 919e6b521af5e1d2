package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/01moynul/glowbeauty-golang/internal/catalog"
	"github.com/01moynul/glowbeauty-golang/internal/models"
)

const productColumns = `id, name, slug, description, short_description, price, original_price,
	category, subcategory, image_url, images, rating, review_count, in_stock, featured,
	bestseller, new_launch, sale_offer, variants, ingredients, benefits, how_to_use, size,
	tags, created_at`

// ProductFilter narrows ListProducts. Nil flags are ignored.
type ProductFilter struct {
	Category    string
	Subcategory string
	Featured    *bool
	Bestseller  *bool
	NewLaunch   *bool
	InStock     *bool
	Search      string
	Limit       int
	Offset      int
}

func scanProduct(sc scanner) (*models.Product, error) {
	var (
		p                models.Product
		images, variants string
		original         decimal.NullDecimal
	)
	err := sc.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &p.Price, &original,
		&p.Category, &p.Subcategory, &p.ImageURL, &images, &p.Rating, &p.ReviewCount, &p.InStock, &p.Featured,
		&p.Bestseller, &p.NewLaunch, &p.SaleOffer, &variants, &p.Ingredients, &p.Benefits, &p.HowToUse, &p.Size,
		&p.Tags, &p.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	if original.Valid {
		v := original.Decimal
		p.OriginalPrice = &v
	}
	p.Images = decodeStrings(images)
	p.Variants = decodeRaw(variants)
	return &p, nil
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(2)
}

// ListProducts returns products newest first.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]*models.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "LOWER(category) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(f.Category)))
	}
	if f.Subcategory != "" {
		where = append(where, "LOWER(subcategory) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(f.Subcategory)))
	}
	for col, flag := range map[string]*bool{
		"featured": f.Featured, "bestseller": f.Bestseller, "new_launch": f.NewLaunch, "in_stock": f.InStock,
	} {
		if flag != nil {
			where = append(where, col+" = ?")
			args = append(args, *flag)
		}
	}
	if strings.TrimSpace(f.Search) != "" {
		p := likePattern(f.Search)
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?)")
		args = append(args, p, p, p)
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(f.Limit)
		if f.Offset > 0 {
			query += " OFFSET " + strconv.Itoa(f.Offset)
		}
	}

	rows, err := s.query(ctx, s.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ProductsByCategory applies the loose category match used by the
// storefront's category pages.
func (s *Store) ProductsByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	all, err := s.ListProducts(ctx, ProductFilter{})
	if err != nil {
		return nil, err
	}
	return catalog.Filter(all, category, func(p *models.Product) string { return p.Category }), nil
}

// GetProductByID returns ErrNotFound when no product has the id.
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return scanProduct(s.queryRow(ctx, s.DB, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
}

// GetProductBySlug returns ErrNotFound when no product has the slug.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return scanProduct(s.queryRow(ctx, s.DB, "SELECT "+productColumns+" FROM products WHERE slug = ?", slug))
}

// GetProductsByIDs returns the products found among ids, keyed by id.
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*models.Product, error) {
	out := map[int64]*models.Product{}
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.query(ctx, s.DB,
		"SELECT "+productColumns+" FROM products WHERE id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// uniqueSlug derives a slug from name that is not yet used in table,
// suffixing -2, -3... on collision. excludeID skips the row being updated.
func (s *Store) uniqueSlug(ctx context.Context, q querier, table, name string, excludeID int64) (string, error) {
	base := catalog.Slug(name)
	if base == "" {
		base = table
	}
	candidate := base
	for i := 2; ; i++ {
		var n int
		err := s.queryRow(ctx, q,
			"SELECT COUNT(*) FROM "+table+" WHERE slug = ? AND id <> ?", candidate, excludeID).Scan(&n)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

// CreateProduct inserts p with a slug generated from its name and refreshes
// the category counters.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	slug, err := s.uniqueSlug(ctx, s.DB, "products", p.Name, 0)
	if err != nil {
		return fmt.Errorf("product slug: %w", err)
	}
	p.Slug = slug
	p.CreatedAt = s.now()
	if p.Images == nil {
		p.Images = []string{}
	}
	if len(p.Variants) == 0 {
		p.Variants = []byte("[]")
	}

	id, err := s.insert(ctx, s.DB, `
		INSERT INTO products
		(name, slug, description, short_description, price, original_price, category, subcategory,
		 image_url, images, rating, review_count, in_stock, featured, bestseller, new_launch, sale_offer,
		 variants, ingredients, benefits, how_to_use, size, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Slug, p.Description, p.ShortDescription, p.Price.StringFixed(2), nullableDecimal(p.OriginalPrice),
		p.Category, p.Subcategory, p.ImageURL, encodeJSON(p.Images), p.Rating, p.ReviewCount, p.InStock,
		p.Featured, p.Bestseller, p.NewLaunch, p.SaleOffer, string(p.Variants), p.Ingredients, p.Benefits,
		p.HowToUse, p.Size, p.Tags, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	p.ID = id
	return s.RefreshProductCounts(ctx)
}

// UpdateProduct overwrites every editable column of p. The slug follows a
// renamed product.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	slug, err := s.uniqueSlug(ctx, s.DB, "products", p.Name, p.ID)
	if err != nil {
		return fmt.Errorf("product slug: %w", err)
	}
	p.Slug = slug
	if p.Images == nil {
		p.Images = []string{}
	}
	if len(p.Variants) == 0 {
		p.Variants = []byte("[]")
	}

	err = mustAffect(s.exec(ctx, s.DB, `
		UPDATE products SET
			name = ?, slug = ?, description = ?, short_description = ?, price = ?, original_price = ?,
			category = ?, subcategory = ?, image_url = ?, images = ?, in_stock = ?, featured = ?,
			bestseller = ?, new_launch = ?, sale_offer = ?, variants = ?, ingredients = ?, benefits = ?,
			how_to_use = ?, size = ?, tags = ?
		WHERE id = ?`,
		p.Name, p.Slug, p.Description, p.ShortDescription, p.Price.StringFixed(2), nullableDecimal(p.OriginalPrice),
		p.Category, p.Subcategory, p.ImageURL, encodeJSON(p.Images), p.InStock, p.Featured,
		p.Bestseller, p.NewLaunch, p.SaleOffer, string(p.Variants), p.Ingredients, p.Benefits,
		p.HowToUse, p.Size, p.Tags, p.ID,
	))
	if err != nil {
		return err
	}
	return s.RefreshProductCounts(ctx)
}

// DeleteProduct removes a product and its reviews.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if err := mustAffect(s.exec(ctx, s.DB, "DELETE FROM products WHERE id = ?", id)); err != nil {
		return err
	}
	return s.RefreshProductCounts(ctx)
}

// RefreshProductCounts recomputes the denormalized product counters on
// categories and subcategories from the free-text product columns.
func (s *Store) RefreshProductCounts(ctx context.Context) error {
	if _, err := s.exec(ctx, s.DB, `
		UPDATE categories SET product_count =
			(SELECT COUNT(*) FROM products p WHERE LOWER(p.category) = LOWER(categories.name))`); err != nil {
		return fmt.Errorf("refresh category counts: %w", err)
	}
	if _, err := s.exec(ctx, s.DB, `
		UPDATE subcategories SET product_count =
			(SELECT COUNT(*) FROM products p WHERE LOWER(p.subcategory) = LOWER(subcategories.name))`); err != nil {
		return fmt.Errorf("refresh subcategory counts: %w", err)
	}
	return nil
}
