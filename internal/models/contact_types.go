package models

import "time"

// Contact submission statuses
const (
	ContactUnread    = "unread"
	ContactRead      = "read"
	ContactResponded = "responded"
)

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID          int64      `json:"id" db:"id"`
	FirstName   string     `json:"firstName" db:"first_name"`
	LastName    string     `json:"lastName" db:"last_name"`
	Email       string     `json:"email" db:"email"`
	Phone       string     `json:"phone,omitempty" db:"phone"`
	Subject     string     `json:"subject" db:"subject"`
	Message     string     `json:"message" db:"message"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	RespondedAt *time.Time `json:"respondedAt,omitempty" db:"responded_at"`
}
