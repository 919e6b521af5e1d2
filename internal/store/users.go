package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

const userColumns = `id, first_name, last_name, email, phone, password_hash, role,
	phone_verified, email_verified, created_at, updated_at`

func scanUser(sc scanner) (*models.User, error) {
	var u models.User
	err := sc.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.PhoneVerified, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// CreateUser inserts u and sets its ID. Emails are stored lowercased.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	now := s.now()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.CreatedAt, u.UpdatedAt = now, now

	id, err := s.insert(ctx, s.DB, `
		INSERT INTO users
		(first_name, last_name, email, phone, password_hash, role, phone_verified, email_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.FirstName, u.LastName, u.Email, u.Phone, u.PasswordHash, u.Role,
		u.PhoneVerified, u.EmailVerified, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.ID = id
	return nil
}

// GetUserByID returns ErrNotFound when no user has the id.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.queryRow(ctx, s.DB, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetUserByEmail matches case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.queryRow(ctx, s.DB,
		"SELECT "+userColumns+" FROM users WHERE email = ?", strings.ToLower(strings.TrimSpace(email))))
}

// GetUserByPhone returns the first user registered with phone.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return scanUser(s.queryRow(ctx, s.DB,
		"SELECT "+userColumns+" FROM users WHERE phone = ? ORDER BY id LIMIT 1", phone))
}

// ListCustomers returns users with the customer role, newest first, with
// their order counts. search matches name, email or phone.
func (s *Store) ListCustomers(ctx context.Context, search string) ([]*models.User, error) {
	query := `
		SELECT ` + prefixed("u.", userColumns) + `,
			(SELECT COUNT(*) FROM orders o WHERE o.user_id = u.id) AS order_count
		FROM users u
		WHERE u.role = ?`
	args := []any{models.RoleUser}

	if strings.TrimSpace(search) != "" {
		query += ` AND (LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ? OR LOWER(u.email) LIKE ? OR u.phone LIKE ?)`
		p := likePattern(search)
		args = append(args, p, p, p, p)
	}
	query += " ORDER BY u.created_at DESC, u.id DESC"

	rows, err := s.query(ctx, s.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
			&u.PhoneVerified, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt, &u.OrderCount,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// UpdateUserProfile changes the editable profile fields.
func (s *Store) UpdateUserProfile(ctx context.Context, u *models.User) error {
	u.UpdatedAt = s.now()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return mustAffect(s.exec(ctx, s.DB, `
		UPDATE users SET first_name = ?, last_name = ?, email = ?, phone = ?, updated_at = ?
		WHERE id = ?`,
		u.FirstName, u.LastName, u.Email, u.Phone, u.UpdatedAt, u.ID))
}

// UpdateUserPassword stores a new bcrypt hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	return mustAffect(s.exec(ctx, s.DB,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?", hash, s.now(), id))
}

// MarkPhoneVerified flags every account registered with phone. A missing
// account is not an error: the phone may be verified before signup.
func (s *Store) MarkPhoneVerified(ctx context.Context, phone string) error {
	_, err := s.exec(ctx, s.DB,
		"UPDATE users SET phone_verified = ?, updated_at = ? WHERE phone = ?", true, s.now(), phone)
	return err
}

// MarkEmailVerified flags the account registered with email, if any.
func (s *Store) MarkEmailVerified(ctx context.Context, email string) error {
	_, err := s.exec(ctx, s.DB,
		"UPDATE users SET email_verified = ?, updated_at = ? WHERE email = ?",
		true, s.now(), strings.ToLower(strings.TrimSpace(email)))
	return err
}

// DeleteCustomer removes a customer account that has never ordered.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var orders int
		if err := s.queryRow(ctx, tx, "SELECT COUNT(*) FROM orders WHERE user_id = ?", id).Scan(&orders); err != nil {
			return err
		}
		if orders > 0 {
			return ErrHasOrders
		}
		return mustAffect(s.exec(ctx, tx, "DELETE FROM users WHERE id = ? AND role = ?", id, models.RoleUser))
	})
}

// prefixed qualifies a comma separated column list with a table alias.
func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
