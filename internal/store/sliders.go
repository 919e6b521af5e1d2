package store

import (
	"context"
	"fmt"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

const sliderColumns = "id, title, subtitle, description, image_url, badge, is_active, sort_order, created_at, updated_at"

func scanSlider(sc scanner) (*models.Slider, error) {
	var sl models.Slider
	err := sc.Scan(&sl.ID, &sl.Title, &sl.Subtitle, &sl.Description, &sl.ImageURL, &sl.Badge, &sl.IsActive,
		&sl.SortOrder, &sl.CreatedAt, &sl.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &sl, nil
}

// ListSliders returns sliders in display order.
func (s *Store) ListSliders(ctx context.Context, activeOnly bool) ([]*models.Slider, error) {
	query := "SELECT " + sliderColumns + " FROM sliders"
	var args []any
	if activeOnly {
		query += " WHERE is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY sort_order, id"

	rows, err := s.query(ctx, s.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sliders: %w", err)
	}
	defer rows.Close()

	out := []*models.Slider{}
	for rows.Next() {
		sl, err := scanSlider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slider: %w", err)
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

// GetSlider returns ErrNotFound when no slider has the id.
func (s *Store) GetSlider(ctx context.Context, id int64) (*models.Slider, error) {
	return scanSlider(s.queryRow(ctx, s.DB, "SELECT "+sliderColumns+" FROM sliders WHERE id = ?", id))
}

func (s *Store) CreateSlider(ctx context.Context, sl *models.Slider) error {
	now := s.now()
	sl.CreatedAt, sl.UpdatedAt = now, now
	id, err := s.insert(ctx, s.DB, `
		INSERT INTO sliders (title, subtitle, description, image_url, badge, is_active, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sl.Title, sl.Subtitle, sl.Description, sl.ImageURL, sl.Badge, sl.IsActive, sl.SortOrder, sl.CreatedAt, sl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create slider: %w", err)
	}
	sl.ID = id
	return nil
}

func (s *Store) UpdateSlider(ctx context.Context, sl *models.Slider) error {
	sl.UpdatedAt = s.now()
	return mustAffect(s.exec(ctx, s.DB, `
		UPDATE sliders SET title = ?, subtitle = ?, description = ?, image_url = ?, badge = ?,
			is_active = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		sl.Title, sl.Subtitle, sl.Description, sl.ImageURL, sl.Badge, sl.IsActive, sl.SortOrder, sl.UpdatedAt, sl.ID))
}

func (s *Store) DeleteSlider(ctx context.Context, id int64) error {
	return mustAffect(s.exec(ctx, s.DB, "DELETE FROM sliders WHERE id = ?", id))
}
