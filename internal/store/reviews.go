package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

// Eligibility tells a customer whether they may review a product.
type Eligibility struct {
	CanReview   bool   `json:"canReview"`
	HasReviewed bool   `json:"hasReviewed"`
	OrderID     int64  `json:"orderId,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func (s *Store) deliveredOrderFor(ctx context.Context, q querier, userID, productID int64) (int64, error) {
	var orderID int64
	err := s.queryRow(ctx, q, `
		SELECT o.id FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE o.user_id = ? AND i.product_id = ? AND o.status = ?
		ORDER BY o.id DESC LIMIT 1`, userID, productID, models.OrderDelivered).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotEligible
	}
	return orderID, err
}

func (s *Store) hasReviewed(ctx context.Context, q querier, userID, productID int64) (bool, error) {
	var n int
	err := s.queryRow(ctx, q, "SELECT COUNT(*) FROM reviews WHERE user_id = ? AND product_id = ?",
		userID, productID).Scan(&n)
	return n > 0, err
}

// ReviewEligibility reports whether userID has a delivered order containing
// productID and has not reviewed it yet.
func (s *Store) ReviewEligibility(ctx context.Context, userID, productID int64) (*Eligibility, error) {
	reviewed, err := s.hasReviewed(ctx, s.DB, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if reviewed {
		return &Eligibility{HasReviewed: true, Reason: "You have already reviewed this product"}, nil
	}

	orderID, err := s.deliveredOrderFor(ctx, s.DB, userID, productID)
	if errors.Is(err, ErrNotEligible) {
		return &Eligibility{Reason: "You can review products from delivered orders only"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check delivered orders: %w", err)
	}
	return &Eligibility{CanReview: true, OrderID: orderID}, nil
}

// CreateReview inserts r as a verified review and refreshes the product's
// rating and review count. The eligibility checks and the insert share one
// transaction; the unique (user_id, product_id) index backs the duplicate
// check.
func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating %d out of range", r.Rating)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := s.queryRow(ctx, tx, "SELECT COUNT(*) FROM products WHERE id = ?", r.ProductID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		reviewed, err := s.hasReviewed(ctx, tx, r.UserID, r.ProductID)
		if err != nil {
			return err
		}
		if reviewed {
			return ErrAlreadyReviewed
		}

		orderID, err := s.deliveredOrderFor(ctx, tx, r.UserID, r.ProductID)
		if err != nil {
			return err
		}

		r.OrderID = orderID
		r.IsVerified = true
		r.CreatedAt = s.now()
		id, err := s.insert(ctx, tx, `
			INSERT INTO reviews (user_id, product_id, order_id, rating, review_text, image_url, is_verified, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.UserID, r.ProductID, r.OrderID, r.Rating, r.ReviewText, r.ImageURL, r.IsVerified, r.CreatedAt)
		if errors.Is(err, ErrDuplicate) {
			return ErrAlreadyReviewed
		}
		if err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
		r.ID = id

		return s.refreshRating(ctx, tx, r.ProductID)
	})
}

func (s *Store) refreshRating(ctx context.Context, q querier, productID int64) error {
	var (
		avg   sql.NullFloat64
		count int
	)
	err := s.queryRow(ctx, q, "SELECT AVG(rating), COUNT(*) FROM reviews WHERE product_id = ?", productID).
		Scan(&avg, &count)
	if err != nil {
		return fmt.Errorf("aggregate ratings: %w", err)
	}
	rating := math.Round(avg.Float64*10) / 10
	_, err = s.exec(ctx, q, "UPDATE products SET rating = ?, review_count = ? WHERE id = ?", rating, count, productID)
	return err
}

// ListProductReviews returns the reviews of a product, newest first, with
// the reviewer's display name.
func (s *Store) ListProductReviews(ctx context.Context, productID int64) ([]*models.Review, error) {
	rows, err := s.query(ctx, s.DB, `
		SELECT r.id, r.user_id, r.product_id, r.order_id, r.rating, r.review_text, r.image_url,
			r.is_verified, r.created_at, u.first_name, u.last_name
		FROM reviews r JOIN users u ON u.id = r.user_id
		WHERE r.product_id = ?
		ORDER BY r.created_at DESC, r.id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		var (
			r           models.Review
			first, last string
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProductID, &r.OrderID, &r.Rating, &r.ReviewText, &r.ImageURL,
			&r.IsVerified, &r.CreatedAt, &first, &last); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.UserName = first
		if initial, _ := utf8.DecodeRuneInString(last); initial != utf8.RuneError {
			r.UserName += " " + string(initial) + "."
		}
		reviews = append(reviews, &r)
	}
	return reviews, rows.Err()
}
