package models

import "time"

// Shade is a colour variant that can be attached to categories,
// subcategories or individual products. The id lists are loose links.
type Shade struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	ColorCode      string    `json:"colorCode" db:"color_code"`
	Value          string    `json:"value" db:"value"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	SortOrder      int       `json:"sortOrder" db:"sort_order"`
	CategoryIDs    []int64   `json:"categoryIds" db:"category_ids"`
	SubcategoryIDs []int64   `json:"subcategoryIds" db:"subcategory_ids"`
	ProductIDs     []int64   `json:"productIds" db:"product_ids"`
	ImageURL       string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// AppliesTo reports whether the shade is linked to any of the given ids.
// Zero ids are ignored.
func (s *Shade) AppliesTo(categoryID, subcategoryID, productID int64) bool {
	return containsID(s.CategoryIDs, categoryID) ||
		containsID(s.SubcategoryIDs, subcategoryID) ||
		containsID(s.ProductIDs, productID)
}

func containsID(ids []int64, id int64) bool {
	if id == 0 {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
