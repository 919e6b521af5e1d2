package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

//
// --- Admin Order Management ---
//

// AdminListOrders handles GET /api/admin/orders?status=&limit=&offset=
func (h *Handlers) AdminListOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != "all" && !models.IsValidOrderStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}
	if status == "all" {
		status = ""
	}
	orders, err := h.Store.ListOrders(c.Request.Context(), store.OrderFilter{
		Status: status,
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	})
	if err != nil {
		h.storeError(c, err, "Orders", "fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

//
// --- Customers ---
//

// AdminListCustomers handles GET /api/admin/customers?search=
func (h *Handlers) AdminListCustomers(c *gin.Context) {
	customers, err := h.Store.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.storeError(c, err, "Customers", "fetch customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// AdminGetCustomer handles GET /api/admin/customers/:id
func (h *Handlers) AdminGetCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	customer, err := h.Store.GetUserByID(ctx, id)
	if err != nil {
		h.storeError(c, err, "Customer", "fetch customer")
		return
	}
	orders, err := h.Store.ListOrdersByUser(ctx, id)
	if err != nil {
		h.storeError(c, err, "Customer", "fetch customer orders")
		return
	}
	customer.OrderCount = len(orders)
	c.JSON(http.StatusOK, gin.H{"customer": customer, "orders": orders})
}

// AdminDeleteCustomer handles DELETE /api/admin/customers/:id. Customers
// with orders are kept so order history stays intact.
func (h *Handlers) AdminDeleteCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	err := h.Store.DeleteCustomer(c.Request.Context(), id)
	if errors.Is(err, store.ErrHasOrders) {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete a customer with existing orders"})
		return
	}
	if err != nil {
		h.storeError(c, err, "Customer", "delete customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

//
// --- Contact Submissions ---
//

type contactStatusInput struct {
	Status string `json:"status" binding:"required,oneof=unread read responded"`
}

// AdminListContacts handles GET /api/admin/contact-submissions?status=
func (h *Handlers) AdminListContacts(c *gin.Context) {
	contacts, err := h.Store.ListContacts(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.storeError(c, err, "Contact submissions", "fetch contact submissions")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// AdminGetContact handles GET /api/admin/contact-submissions/:id. Opening an
// unread submission marks it read.
func (h *Handlers) AdminGetContact(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	contact, err := h.Store.GetContact(ctx, id)
	if err != nil {
		h.storeError(c, err, "Contact submission", "fetch contact submission")
		return
	}
	if contact.Status == models.ContactUnread {
		if err := h.Store.UpdateContactStatus(ctx, id, models.ContactRead); err != nil {
			h.log().Error("mark contact read failed", "contact_id", id, "error", err)
		} else {
			contact.Status = models.ContactRead
		}
	}
	c.JSON(http.StatusOK, contact)
}

// AdminUpdateContact handles PUT /api/admin/contact-submissions/:id
func (h *Handlers) AdminUpdateContact(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input contactStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be unread, read or responded"})
		return
	}
	ctx := c.Request.Context()
	if err := h.Store.UpdateContactStatus(ctx, id, input.Status); err != nil {
		h.storeError(c, err, "Contact submission", "update contact submission")
		return
	}
	contact, err := h.Store.GetContact(ctx, id)
	if err != nil {
		h.storeError(c, err, "Contact submission", "update contact submission")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// AdminDeleteContact handles DELETE /api/admin/contact-submissions/:id
func (h *Handlers) AdminDeleteContact(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteContact(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Contact submission", "delete contact submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact submission deleted successfully"})
}

//
// --- Excel Exports ---
//

func writeXLSX(c *gin.Context, file *xlsx.File, filename string) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		c.Error(fmt.Errorf("write %s: %w", filename, err))
	}
}

func addHeader(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetValue(h)
	}
}

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportProducts handles GET /api/admin/products/export
func (h *Handlers) ExportProducts(c *gin.Context) {
	products, err := h.Store.ListProducts(c.Request.Context(), store.ProductFilter{})
	if err != nil {
		h.storeError(c, err, "Products", "fetch products")
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}
	addHeader(sheet,
		"ID", "Name", "Slug", "Category", "Subcategory", "Price", "Original Price",
		"In Stock", "Featured", "Bestseller", "New Launch", "Rating", "Reviews", "Created At",
	)
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Slug)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Subcategory)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		original := ""
		if p.OriginalPrice != nil {
			original = p.OriginalPrice.StringFixed(2)
		}
		row.AddCell().SetValue(original)
		row.AddCell().SetValue(p.InStock)
		row.AddCell().SetValue(p.Featured)
		row.AddCell().SetValue(p.Bestseller)
		row.AddCell().SetValue(p.NewLaunch)
		row.AddCell().SetValue(p.Rating)
		row.AddCell().SetValue(p.ReviewCount)
		row.AddCell().SetValue(p.CreatedAt.Format(exportTimeLayout))
	}
	writeXLSX(c, file, "products.xlsx")
}

// ExportOrders handles GET /api/admin/orders/export?status=
func (h *Handlers) ExportOrders(c *gin.Context) {
	orders, err := h.Store.ListOrders(c.Request.Context(), store.OrderFilter{Status: c.Query("status")})
	if err != nil {
		h.storeError(c, err, "Orders", "fetch orders")
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}
	addHeader(sheet,
		"Order ID", "Customer", "Email", "Phone", "Status", "Payment", "Total",
		"Items", "Tracking Number", "Shipping Address", "Created At",
	)
	for _, o := range orders {
		var items []string
		for _, it := range o.Items {
			items = append(items, fmt.Sprintf("%d x %s", it.Quantity, it.ProductName))
		}
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.CustomerName)
		row.AddCell().SetValue(o.CustomerEmail)
		row.AddCell().SetValue(o.CustomerPhone)
		row.AddCell().SetValue(o.Status)
		row.AddCell().SetValue(o.PaymentMethod)
		row.AddCell().SetValue(o.TotalAmount.StringFixed(2))
		row.AddCell().SetValue(strings.Join(items, "; "))
		row.AddCell().SetValue(o.TrackingNumber)
		row.AddCell().SetValue(o.ShippingAddress)
		row.AddCell().SetValue(o.CreatedAt.Format(exportTimeLayout))
	}
	writeXLSX(c, file, fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102")))
}

//
// --- Live Order Feed ---
//

// OrdersFeed handles GET /api/admin/ws/orders, upgrading to a websocket that
// receives new orders and status changes.
func (h *Handlers) OrdersFeed(c *gin.Context) {
	if h.Feed == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live feed is not available"})
		return
	}
	h.Feed.ServeHTTP(c.Writer, c.Request)
}
