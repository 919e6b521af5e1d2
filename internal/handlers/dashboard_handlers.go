package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardStats handles GET /api/admin/dashboard-stats
func (h *Handlers) DashboardStats(c *gin.Context) {
	stats, err := h.Store.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "Dashboard stats", "fetch dashboard stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalProducts":  stats.TotalProducts,
		"totalCustomers": stats.TotalCustomers,
		"totalOrders":    stats.TotalOrders,
		"pendingOrders":  stats.PendingOrders,
		"unreadContacts": stats.UnreadContacts,
		"revenue":        stats.Revenue.StringFixed(2),
		"recentOrders":   stats.RecentOrders,
		"liveClients":    h.liveClients(),
	})
}

func (h *Handlers) liveClients() int {
	if h.Feed == nil {
		return 0
	}
	return h.Feed.Clients()
}
