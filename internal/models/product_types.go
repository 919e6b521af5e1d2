package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
// Category and Subcategory are free text matched against category names,
// not foreign keys.
type Product struct {
	ID               int64  `json:"id" db:"id"`
	Name             string `json:"name" db:"name"`
	Slug             string `json:"slug" db:"slug"`
	Description      string `json:"description" db:"description"`
	ShortDescription string `json:"shortDescription" db:"short_description"`

	// --- Pricing ---
	Price         decimal.Decimal  `json:"price" db:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty" db:"original_price"`
	SaleOffer     string           `json:"saleOffer,omitempty" db:"sale_offer"`

	// --- Taxonomy ---
	Category    string `json:"category" db:"category"`
	Subcategory string `json:"subcategory,omitempty" db:"subcategory"`
	Tags        string `json:"tags,omitempty" db:"tags"`

	// --- Media ---
	ImageURL string   `json:"imageUrl" db:"image_url"`
	Images   []string `json:"images" db:"images"` // stored as JSON text

	// --- Social proof ---
	Rating      float64 `json:"rating" db:"rating"`
	ReviewCount int     `json:"reviewCount" db:"review_count"`

	// --- Flags ---
	InStock    bool `json:"inStock" db:"in_stock"`
	Featured   bool `json:"featured" db:"featured"`
	Bestseller bool `json:"bestseller" db:"bestseller"`
	NewLaunch  bool `json:"newLaunch" db:"new_launch"`

	// --- Content ---
	Variants    json.RawMessage `json:"variants" db:"variants"`
	Ingredients string          `json:"ingredients,omitempty" db:"ingredients"`
	Benefits    string          `json:"benefits,omitempty" db:"benefits"`
	HowToUse    string          `json:"howToUse,omitempty" db:"how_to_use"`
	Size        string          `json:"size,omitempty" db:"size"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
