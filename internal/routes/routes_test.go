package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"

	"github.com/01moynul/glowbeauty-golang/internal/auth"
	"github.com/01moynul/glowbeauty-golang/internal/config"
	"github.com/01moynul/glowbeauty-golang/internal/database"
	"github.com/01moynul/glowbeauty-golang/internal/events"
	"github.com/01moynul/glowbeauty-golang/internal/handlers"
	"github.com/01moynul/glowbeauty-golang/internal/invoice"
	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/otp"
	"github.com/01moynul/glowbeauty-golang/internal/payments"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) Publish(_ context.Context, key string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

type fakeGateway struct {
	status   string
	checked  []string
	captured []string
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payments.CheckoutRequest) (*payments.Checkout, error) {
	return &payments.Checkout{
		PayPalOrderID: "PP-1",
		Status:        payments.StatusCreated,
		ApprovalURL:   "https://paypal.test/approve?token=PP-1",
	}, nil
}

func (g *fakeGateway) CaptureOrder(_ context.Context, id string) (string, error) {
	g.captured = append(g.captured, id)
	return payments.StatusCompleted, nil
}

func (g *fakeGateway) OrderStatus(_ context.Context, id string) (string, error) {
	g.checked = append(g.checked, id)
	return g.status, nil
}

type testAPI struct {
	c      *qt.C
	router *gin.Engine
	h      *handlers.Handlers
	store  *store.Store
	events *recorder
	now    time.Time
}

func newTestAPI(c *qt.C) *testAPI {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, dialect, err := database.OpenDB(ctx, "sqlite://:memory:", database.DefaultPool)
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { db.Close() })
	c.Assert(database.NewMigrator("sqlite://:memory:", dialect, db, logger).Up(ctx), qt.IsNil)

	api := &testAPI{
		c:      c,
		store:  store.New(db, dialect),
		events: &recorder{},
		now:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	codes := otp.New(otp.Options{Static: true}, nil, nil, logger)
	codes.SetClock(func() time.Time { return api.now })
	tokens, err := auth.NewManager("test-secret", time.Hour)
	c.Assert(err, qt.IsNil)

	api.h = &handlers.Handlers{
		Store:   api.store,
		Tokens:  tokens,
		OTP:     codes,
		Events:  api.events,
		Invoice: invoice.DefaultStore,
		Config: config.Config{
			BaseURL:     "http://api.test",
			FrontendURL: "http://shop.test",
			UploadDir:   c.TempDir(),
			Currency:    "USD",
		},
		Logger: logger,
	}
	api.router = SetupRouter(api.h, logger)
	return api
}

func (api *testAPI) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		api.c.Assert(err, qt.IsNil)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func decode[T any](c *qt.C, w *httptest.ResponseRecorder) T {
	var v T
	c.Assert(json.Unmarshal(w.Body.Bytes(), &v), qt.IsNil, qt.Commentf("body: %s", w.Body.String()))
	return v
}

// user creates an account directly in the store and returns its token.
func (api *testAPI) user(email, role string) (int64, string) {
	var p models.Password
	api.c.Assert(p.Set("password123"), qt.IsNil)
	u := &models.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: p.Hash, Role: role}
	api.c.Assert(api.store.CreateUser(context.Background(), u), qt.IsNil)
	token, err := api.h.Tokens.GenerateToken(u.ID, role)
	api.c.Assert(err, qt.IsNil)
	return u.ID, token
}

func (api *testAPI) product(adminToken, name, category, price string) models.Product {
	w := api.do(http.MethodPost, "/api/products", gin.H{
		"name":        name,
		"description": name + " for every day",
		"category":    category,
		"price":       price,
	}, adminToken)
	api.c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
	return decode[models.Product](api.c, w)
}

func (api *testAPI) order(token string, items ...gin.H) models.Order {
	w := api.do(http.MethodPost, "/api/orders", gin.H{
		"items":           items,
		"shippingAddress": "12 Rose Lane, Dhaka",
		"paymentMethod":   "cod",
	}, token)
	api.c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
	return decode[models.Order](api.c, w)
}

func TestHealth(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)

	w := api.do(http.MethodGet, "/api/health", nil, "")
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(decode[map[string]string](c, w), qt.DeepEquals, map[string]string{"status": "ok", "database": "up"})

	w = api.do(http.MethodGet, "/api/nope", nil, "")
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
}

func TestSignupPasswordMismatch(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)

	w := api.do(http.MethodPost, "/api/auth/signup", gin.H{
		"firstName":       "Mina",
		"lastName":        "Rahman",
		"email":           "mina@example.com",
		"phone":           "9876543210",
		"password":        "secret123",
		"confirmPassword": "secret124",
	}, "")
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(decode[map[string]any](c, w)["error"], qt.Equals, "Passwords do not match")

	_, err := api.store.GetUserByEmail(context.Background(), "mina@example.com")
	c.Assert(err, qt.ErrorIs, store.ErrNotFound)
}

func TestSignupAndLogin(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)

	signup := gin.H{
		"firstName":       "Mina",
		"lastName":        "Rahman",
		"email":           "Mina@Example.com",
		"phone":           "9876543210",
		"password":        "secret123",
		"confirmPassword": "secret123",
	}
	w := api.do(http.MethodPost, "/api/auth/signup", signup, "")
	c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
	created := decode[struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}](c, w)
	c.Assert(created.Token, qt.Not(qt.Equals), "")
	c.Assert(created.User.Email, qt.Equals, "mina@example.com")
	c.Assert(created.User.Role, qt.Equals, models.RoleUser)

	w = api.do(http.MethodPost, "/api/auth/signup", signup, "")
	c.Assert(w.Code, qt.Equals, http.StatusConflict)

	w = api.do(http.MethodPost, "/api/auth/login", gin.H{"email": "mina@example.com", "password": "wrong-pass"}, "")
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	failed := decode[map[string]any](c, w)
	c.Assert(failed["error"], qt.Equals, "Invalid email or password")
	_, hasToken := failed["token"]
	c.Assert(hasToken, qt.IsFalse)

	w = api.do(http.MethodPost, "/api/auth/login", gin.H{"email": "mina@example.com", "password": "secret123"}, "")
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	token := decode[map[string]any](c, w)["token"].(string)

	w = api.do(http.MethodGet, "/api/auth/validate", nil, token)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(decode[map[string]any](c, w)["valid"], qt.Equals, true)

	w = api.do(http.MethodGet, "/api/auth/validate", nil, "not-a-token")
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
}

func TestMobileOTPExpiry(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)

	w := api.do(http.MethodPost, "/api/auth/send-mobile-otp", gin.H{"phone": "9876543210"}, "")
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))

	w = api.do(http.MethodPost, "/api/auth/verify-mobile-otp", gin.H{"phone": "9876543210", "otp": "123456"}, "")
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))
	c.Assert(decode[map[string]any](c, w)["verified"], qt.Equals, true)

	api.now = api.now.Add(6 * time.Minute)
	w = api.do(http.MethodPost, "/api/auth/verify-mobile-otp", gin.H{"phone": "9876543210", "otp": "123456"}, "")
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(decode[map[string]any](c, w)["error"], qt.Equals, "OTP has expired")
}

func TestCreateProduct(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, admin := api.user("admin@glow.test", models.RoleAdmin)
	_, customer := api.user("buyer@glow.test", models.RoleUser)

	w := api.do(http.MethodPost, "/api/products", gin.H{"name": "Rose Glow Serum"}, admin)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	body := decode[map[string]any](c, w)
	c.Assert(body["error"], qt.Matches, "Missing required fields: .*price.*")
	c.Assert(strings.Contains(body["error"].(string), "name"), qt.IsFalse)

	w = api.do(http.MethodPost, "/api/products", gin.H{
		"name": "Rose Glow Serum", "description": "Serum", "category": "Skincare", "price": "24.50",
	}, customer)
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)

	p := api.product(admin, "Rose Glow Serum", "Skincare", "24.50")
	c.Assert(p.Slug, qt.Equals, "rose-glow-serum")
	c.Assert(p.Price.StringFixed(2), qt.Equals, "24.50")
	c.Assert(p.InStock, qt.IsTrue)

	w = api.do(http.MethodGet, "/api/products/rose-glow-serum", nil, "")
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(decode[models.Product](c, w).ID, qt.Equals, p.ID)
}

func TestProductsByBeautyCategory(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, admin := api.user("admin@glow.test", models.RoleAdmin)

	api.product(admin, "Velvet Lipstick", "Makeup", "18.50")
	api.product(admin, "Rose Glow Serum", "Skincare", "24.50")
	api.product(admin, "Gift Notebook", "Stationery", "5.00")

	w := api.do(http.MethodGet, "/api/products/category/beauty", nil, "")
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	products := decode[[]models.Product](c, w)
	var names []string
	for _, p := range products {
		names = append(names, p.Name)
	}
	c.Assert(names, qt.HasLen, 2)
	c.Assert(names, qt.Contains, "Velvet Lipstick")
	c.Assert(names, qt.Contains, "Rose Glow Serum")
}

func TestCreateOrderWithoutItems(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, token := api.user("buyer@glow.test", models.RoleUser)

	w := api.do(http.MethodPost, "/api/orders", gin.H{
		"items":           []gin.H{},
		"shippingAddress": "12 Rose Lane",
	}, token)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(decode[map[string]any](c, w)["error"], qt.Equals, "Order must contain at least one item")

	orders, err := api.store.ListOrders(context.Background(), store.OrderFilter{})
	c.Assert(err, qt.IsNil)
	c.Assert(orders, qt.HasLen, 0)
	c.Assert(api.events.published(), qt.HasLen, 0)
}

func TestOrderLifecycle(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, admin := api.user("admin@glow.test", models.RoleAdmin)
	_, buyer := api.user("buyer@glow.test", models.RoleUser)
	_, other := api.user("other@glow.test", models.RoleUser)

	lipstick := api.product(admin, "Velvet Lipstick", "Makeup", "18.50")
	serum := api.product(admin, "Rose Glow Serum", "Skincare", "24.99")

	// The client price is ignored.
	order := api.order(buyer,
		gin.H{"productId": lipstick.ID, "quantity": 2, "price": "0.01"},
		gin.H{"productId": serum.ID, "quantity": 1},
	)
	c.Assert(order.Status, qt.Equals, models.OrderPending)
	c.Assert(order.TotalAmount.StringFixed(2), qt.Equals, "61.99")
	c.Assert(order.Items, qt.HasLen, 2)
	c.Assert(order.CustomerEmail, qt.Equals, "buyer@glow.test")
	c.Assert(api.events.published(), qt.DeepEquals, []string{events.RKOrderCreated})

	path := "/api/orders/" + itoa(order.ID)
	c.Assert(api.do(http.MethodGet, path, nil, other).Code, qt.Equals, http.StatusForbidden)
	c.Assert(api.do(http.MethodGet, path, nil, buyer).Code, qt.Equals, http.StatusOK)
	c.Assert(api.do(http.MethodGet, path, nil, admin).Code, qt.Equals, http.StatusOK)

	w := api.do(http.MethodPut, path+"/status", gin.H{"status": "teleported"}, admin)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(api.do(http.MethodPut, path+"/status", gin.H{"status": "shipped"}, buyer).Code, qt.Equals, http.StatusForbidden)

	w = api.do(http.MethodPut, path+"/status", gin.H{
		"status":            "shipped",
		"trackingNumber":    "GB123456",
		"estimatedDelivery": "2026-03-05",
	}, admin)
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))
	shipped := decode[models.Order](c, w)
	c.Assert(shipped.Status, qt.Equals, models.OrderShipped)
	c.Assert(shipped.TrackingNumber, qt.Equals, "GB123456")
	c.Assert(shipped.EstimatedDelivery, qt.IsNotNil)
	c.Assert(api.events.published(), qt.DeepEquals, []string{events.RKOrderCreated, events.RKOrderStatusChanged})

	w = api.do(http.MethodGet, path+"/tracking", nil, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	tracking := decode[struct {
		Status   string                  `json:"status"`
		Timeline []handlers.TrackingStep `json:"timeline"`
	}](c, w)
	c.Assert(tracking.Status, qt.Equals, models.OrderShipped)
	c.Assert(tracking.Timeline, qt.DeepEquals, handlers.Timeline(models.OrderShipped))

	w = api.do(http.MethodGet, "/api/notifications", nil, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	notes := decode[struct {
		Notifications []models.OrderNotification `json:"notifications"`
		UnreadCount   int                        `json:"unreadCount"`
	}](c, w)
	c.Assert(notes.Notifications, qt.HasLen, 1)
	c.Assert(notes.UnreadCount, qt.Equals, 1)

	w = api.do(http.MethodPut, "/api/notifications/"+itoa(notes.Notifications[0].ID)+"/read", nil, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	w = api.do(http.MethodGet, path+"/invoice", nil, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Header().Get("Content-Disposition"), qt.Matches, `attachment; filename=.*`)
	c.Assert(w.Body.String(), qt.Contains, "Velvet Lipstick")

	w = api.do(http.MethodPost, path+"/cancel", nil, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(decode[map[string]any](c, w)["error"], qt.Equals, "Order can no longer be cancelled")
}

func TestCancelPendingOrder(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, admin := api.user("admin@glow.test", models.RoleAdmin)
	_, buyer := api.user("buyer@glow.test", models.RoleUser)
	p := api.product(admin, "Velvet Lipstick", "Makeup", "18.50")

	order := api.order(buyer, gin.H{"productId": p.ID, "quantity": 1})
	w := api.do(http.MethodPost, "/api/orders/"+itoa(order.ID)+"/cancel", nil, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(decode[models.Order](c, w).Status, qt.Equals, models.OrderCancelled)
}

func TestReviewsRequireDeliveredOrder(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, admin := api.user("admin@glow.test", models.RoleAdmin)
	_, buyer := api.user("buyer@glow.test", models.RoleUser)
	p := api.product(admin, "Velvet Lipstick", "Makeup", "18.50")
	order := api.order(buyer, gin.H{"productId": p.ID, "quantity": 1})

	reviewPath := "/api/products/" + itoa(p.ID) + "/reviews"
	review := gin.H{"rating": 4, "reviewText": "Lovely colour"}

	w := api.do(http.MethodPost, reviewPath, review, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)

	w = api.do(http.MethodPut, "/api/orders/"+itoa(order.ID)+"/status", gin.H{"status": "delivered"}, admin)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	w = api.do(http.MethodPost, reviewPath, review, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))

	w = api.do(http.MethodPost, reviewPath, review, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusConflict)

	w = api.do(http.MethodGet, reviewPath, nil, "")
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(decode[[]models.Review](c, w), qt.HasLen, 1)

	w = api.do(http.MethodGet, "/api/products/"+itoa(p.ID), nil, "")
	got := decode[models.Product](c, w)
	c.Assert(got.Rating, qt.Equals, 4.0)
	c.Assert(got.ReviewCount, qt.Equals, 1)
}

func TestPayPalCheckout(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	gateway := &fakeGateway{status: payments.StatusApproved}
	api.h.Payments = gateway
	_, admin := api.user("admin@glow.test", models.RoleAdmin)
	_, buyer := api.user("buyer@glow.test", models.RoleUser)
	p := api.product(admin, "Rose Glow Serum", "Skincare", "24.99")
	order := api.order(buyer, gin.H{"productId": p.ID, "quantity": 1})

	w := api.do(http.MethodPost, "/api/payments/paypal/create-order", gin.H{"orderId": order.ID}, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))
	c.Assert(decode[map[string]any](c, w)["approvalUrl"], qt.Equals, "https://paypal.test/approve?token=PP-1")

	w = api.do(http.MethodGet, "/api/payments/paypal/success?token=PP-1", nil, "")
	c.Assert(w.Code, qt.Equals, http.StatusFound)
	c.Assert(w.Header().Get("Location"), qt.Equals, "http://shop.test/order-success?orderId="+itoa(order.ID))
	c.Assert(gateway.captured, qt.DeepEquals, []string{"PP-1"})

	paid, err := api.store.GetOrder(context.Background(), order.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(paid.Status, qt.Equals, models.OrderConfirmed)
	c.Assert(paid.PaymentID, qt.Equals, "PP-1")
	c.Assert(api.events.published(), qt.Contains, events.RKOrderPaid)
}

func TestPayPalVerifyRequiresOwner(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	gateway := &fakeGateway{status: payments.StatusApproved}
	api.h.Payments = gateway
	_, admin := api.user("admin@glow.test", models.RoleAdmin)
	_, buyer := api.user("buyer@glow.test", models.RoleUser)
	_, stranger := api.user("stranger@glow.test", models.RoleUser)
	p := api.product(admin, "Rose Glow Serum", "Skincare", "24.99")
	order := api.order(buyer, gin.H{"productId": p.ID, "quantity": 1})

	w := api.do(http.MethodPost, "/api/payments/paypal/create-order", gin.H{"orderId": order.ID}, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))

	w = api.do(http.MethodPost, "/api/payments/paypal/verify", gin.H{"paypalOrderId": "PP-1"}, stranger)
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)
	c.Assert(gateway.checked, qt.HasLen, 0)
	c.Assert(gateway.captured, qt.HasLen, 0)

	pending, err := api.store.GetOrder(context.Background(), order.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(pending.Status, qt.Equals, models.OrderPending)
	c.Assert(api.events.published(), qt.Not(qt.Contains), events.RKOrderPaid)

	w = api.do(http.MethodPost, "/api/payments/paypal/verify", gin.H{"paypalOrderId": "PP-1"}, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))
	c.Assert(decode[map[string]any](c, w)["verified"], qt.Equals, true)
	c.Assert(gateway.captured, qt.DeepEquals, []string{"PP-1"})
}

func TestPayPalDisabled(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, buyer := api.user("buyer@glow.test", models.RoleUser)

	w := api.do(http.MethodPost, "/api/payments/paypal/create-order", gin.H{"orderId": 1}, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusServiceUnavailable)
	c.Assert(decode[map[string]any](c, w)["error"], qt.Equals, payments.ErrDisabled.Error())
}

func TestAdminRoutes(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, admin := api.user("admin@glow.test", models.RoleAdmin)
	_, buyer := api.user("buyer@glow.test", models.RoleUser)
	api.product(admin, "Velvet Lipstick", "Makeup", "18.50")

	c.Assert(api.do(http.MethodGet, "/api/admin/dashboard-stats", nil, "").Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(api.do(http.MethodGet, "/api/admin/dashboard-stats", nil, buyer).Code, qt.Equals, http.StatusForbidden)

	w := api.do(http.MethodGet, "/api/admin/dashboard-stats", nil, admin)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	stats := decode[map[string]any](c, w)
	c.Assert(stats["totalProducts"], qt.Equals, 1.0)
	c.Assert(stats["totalCustomers"], qt.Equals, 1.0)
	c.Assert(stats["revenue"], qt.Equals, "0.00")

	w = api.do(http.MethodGet, "/api/admin/products/export", nil, admin)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Header().Get("Content-Type"), qt.Equals, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Assert(strings.HasPrefix(w.Body.String(), "PK"), qt.IsTrue)

	w = api.do(http.MethodPost, "/api/admin/products/1/ai-copy", nil, admin)
	c.Assert(w.Code, qt.Equals, http.StatusServiceUnavailable)
}

func TestContactSubmission(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, admin := api.user("admin@glow.test", models.RoleAdmin)

	w := api.do(http.MethodPost, "/api/contact", gin.H{
		"firstName": "Ayesha", "email": "ayesha@example.com", "subject": "Shade match", "message": "Which shade suits olive skin?",
	}, "")
	c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
	id := int64(decode[map[string]any](c, w)["id"].(float64))

	w = api.do(http.MethodGet, "/api/admin/contact-submissions/"+itoa(id), nil, admin)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(decode[models.ContactSubmission](c, w).Status, qt.Equals, models.ContactRead)
}

func TestContactFromSignedInCustomer(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, admin := api.user("admin@glow.test", models.RoleAdmin)
	_, buyer := api.user("buyer@glow.test", models.RoleUser)
	body := gin.H{"subject": "Late parcel", "message": "Order has not arrived yet."}

	w := api.do(http.MethodPost, "/api/contact", body, "")
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	// An invalid token is treated as anonymous rather than rejected.
	w = api.do(http.MethodPost, "/api/contact", body, "not-a-token")
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = api.do(http.MethodPost, "/api/contact", body, buyer)
	c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
	id := int64(decode[map[string]any](c, w)["id"].(float64))

	w = api.do(http.MethodGet, "/api/admin/contact-submissions/"+itoa(id), nil, admin)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	got := decode[models.ContactSubmission](c, w)
	c.Assert(got.Email, qt.Equals, "buyer@glow.test")
	c.Assert(got.FirstName, qt.Equals, "Test")
	c.Assert(got.LastName, qt.Equals, "User")
}

func TestUploadImage(t *testing.T) {
	c := qt.New(t)
	api := newTestAPI(c)
	_, buyer := api.user("buyer@glow.test", models.RoleUser)

	upload := func(name string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("image", name)
		c.Assert(err, qt.IsNil)
		_, err = fw.Write(content)
		c.Assert(err, qt.IsNil)
		c.Assert(mw.Close(), qt.IsNil)

		req := httptest.NewRequest(http.MethodPost, "/api/upload/image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+buyer)
		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, req)
		return w
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	w := upload("selfie.png", png)
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))
	res := decode[map[string]string](c, w)
	c.Assert(res["filename"], qt.Matches, `[0-9a-f-]{36}\.png`)
	c.Assert(res["url"], qt.Equals, "http://api.test/api/images/"+res["filename"])

	w = api.do(http.MethodGet, "/api/images/"+res["filename"], nil, "")
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	w = upload("notes.png", []byte("just some text pretending to be an image"))
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
