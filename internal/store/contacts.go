package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

const contactColumns = "id, first_name, last_name, email, phone, subject, message, status, created_at, responded_at"

func scanContact(sc scanner) (*models.ContactSubmission, error) {
	var (
		c         models.ContactSubmission
		responded sql.NullTime
	)
	err := sc.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.Status,
		&c.CreatedAt, &responded)
	if err != nil {
		return nil, mapErr(err)
	}
	if responded.Valid {
		t := responded.Time
		c.RespondedAt = &t
	}
	return &c, nil
}

// CreateContact stores a contact form submission as unread.
func (s *Store) CreateContact(ctx context.Context, c *models.ContactSubmission) error {
	c.Status = models.ContactUnread
	c.CreatedAt = s.now()
	id, err := s.insert(ctx, s.DB, `
		INSERT INTO contact_submissions (first_name, last_name, email, phone, subject, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Subject, c.Message, c.Status, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contact submission: %w", err)
	}
	c.ID = id
	return nil
}

// ListContacts returns submissions newest first, optionally by status.
func (s *Store) ListContacts(ctx context.Context, status string) ([]*models.ContactSubmission, error) {
	query := "SELECT " + contactColumns + " FROM contact_submissions"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.query(ctx, s.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	defer rows.Close()

	out := []*models.ContactSubmission{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact submission: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetContact returns ErrNotFound when no submission has the id.
func (s *Store) GetContact(ctx context.Context, id int64) (*models.ContactSubmission, error) {
	return scanContact(s.queryRow(ctx, s.DB, "SELECT "+contactColumns+" FROM contact_submissions WHERE id = ?", id))
}

// UpdateContactStatus moves a submission through unread, read and
// responded. Marking it responded stamps responded_at.
func (s *Store) UpdateContactStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case models.ContactUnread, models.ContactRead:
		return mustAffect(s.exec(ctx, s.DB, "UPDATE contact_submissions SET status = ? WHERE id = ?", status, id))
	case models.ContactResponded:
		return mustAffect(s.exec(ctx, s.DB,
			"UPDATE contact_submissions SET status = ?, responded_at = ? WHERE id = ?", status, s.now(), id))
	default:
		return fmt.Errorf("invalid contact status %q", status)
	}
}

// DeleteContact removes one submission.
func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	return mustAffect(s.exec(ctx, s.DB, "DELETE FROM contact_submissions WHERE id = ?", id))
}
