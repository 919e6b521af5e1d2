package models

import "time"

// Slider is a homepage hero banner.
type Slider struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Subtitle    string    `json:"subtitle,omitempty" db:"subtitle"`
	Description string    `json:"description,omitempty" db:"description"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	Badge       string    `json:"badge,omitempty" db:"badge"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	SortOrder   int       `json:"sortOrder" db:"sort_order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
