package models

import "time"

// Category status values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Category defines the struct for the 'categories' table.
// ProductCount is denormalized and refreshed by RefreshProductCounts.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Description  string    `json:"description" db:"description"`
	ImageURL     string    `json:"imageUrl" db:"image_url"`
	Status       string    `json:"status" db:"status"`
	ProductCount int       `json:"productCount" db:"product_count"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	Subcategories []Subcategory `json:"subcategories,omitempty" db:"-"`
}

// Subcategory defines the struct for the 'subcategories' table.
type Subcategory struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Description  string    `json:"description" db:"description"`
	CategoryID   int64     `json:"categoryId" db:"category_id"`
	Status       string    `json:"status" db:"status"`
	ProductCount int       `json:"productCount" db:"product_count"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	CategoryName string `json:"categoryName,omitempty" db:"-"`
}
