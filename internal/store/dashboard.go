package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

// DashboardStats are the admin overview KPIs. Revenue excludes cancelled
// orders.
type DashboardStats struct {
	TotalProducts  int             `json:"totalProducts"`
	TotalCustomers int             `json:"totalCustomers"`
	TotalOrders    int             `json:"totalOrders"`
	PendingOrders  int             `json:"pendingOrders"`
	UnreadContacts int             `json:"unreadContacts"`
	Revenue        decimal.Decimal `json:"revenue"`
	RecentOrders   []*models.Order `json:"recentOrders"`
}

// GetDashboardStats aggregates the admin KPIs.
func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	counts := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&stats.TotalProducts, "SELECT COUNT(*) FROM products", nil},
		{&stats.TotalCustomers, "SELECT COUNT(*) FROM users WHERE role = ?", []any{models.RoleUser}},
		{&stats.TotalOrders, "SELECT COUNT(*) FROM orders", nil},
		{&stats.PendingOrders, "SELECT COUNT(*) FROM orders WHERE status = ?", []any{models.OrderPending}},
		{&stats.UnreadContacts, "SELECT COUNT(*) FROM contact_submissions WHERE status = ?", []any{models.ContactUnread}},
	}
	for _, c := range counts {
		if err := s.queryRow(ctx, s.DB, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}

	var revenue decimal.NullDecimal
	if err := s.queryRow(ctx, s.DB,
		"SELECT SUM(total_amount) FROM orders WHERE status <> ?", models.OrderCancelled).Scan(&revenue); err != nil {
		return nil, fmt.Errorf("dashboard revenue: %w", err)
	}
	stats.Revenue = decimal.Zero
	if revenue.Valid {
		stats.Revenue = revenue.Decimal
	}

	recent, err := s.ListOrders(ctx, OrderFilter{Limit: 5})
	if err != nil {
		return nil, err
	}
	stats.RecentOrders = recent
	return &stats, nil
}
