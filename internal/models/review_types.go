package models

import "time"

// Review is the model for the 'reviews' table.
type Review struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	ProductID  int64     `json:"productId" db:"product_id"`
	OrderID    int64     `json:"orderId" db:"order_id"`
	Rating     int       `json:"rating" db:"rating"`
	ReviewText string    `json:"reviewText" db:"review_text"`
	ImageURL   string    `json:"imageUrl,omitempty" db:"image_url"`
	IsVerified bool      `json:"isVerified" db:"is_verified"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	UserName string `json:"userName,omitempty" db:"-"`
}
