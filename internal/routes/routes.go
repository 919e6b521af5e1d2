package routes

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/01moynul/glowbeauty-golang/internal/handlers"
	"github.com/01moynul/glowbeauty-golang/internal/logger"
	"github.com/01moynul/glowbeauty-golang/internal/middleware"
	"github.com/01moynul/glowbeauty-golang/internal/telemetry"
)

// CORSConfig allows the storefront origins to call the API with a bearer
// token. An empty list or "*" allows any origin.
func CORSConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// SetupRouter wires every endpoint under /api.
func SetupRouter(h *handlers.Handlers, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = handlers.MaxUploadSize + 1<<20

	// --- Global Middleware ---
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(telemetry.ServiceName))
	router.Use(logger.RequestLogger(log))
	router.Use(cors.New(CORSConfig(h.Config.CORSOrigins)))

	requireAuth := middleware.AuthMiddleware(h.Tokens)
	requireAdmin := middleware.AdminMiddleware(h.Store)
	optionalAuth := middleware.OptionalAuth(h.Tokens)

	api := router.Group("/api")
	{
		// --- Health & Static (Public) ---
		api.GET("/health", h.Health)
		api.GET("/images/:filename", h.ServeImage)

		// --- Auth Routes (Public) ---
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", h.Signup)
			authRoutes.POST("/login", h.Login)
			authRoutes.POST("/logout", h.Logout)
			authRoutes.POST("/send-otp", h.SendOTP)
			authRoutes.POST("/verify-otp", h.VerifyOTP)
			authRoutes.POST("/send-mobile-otp", h.SendMobileOTP)
			authRoutes.POST("/verify-mobile-otp", h.VerifyMobileOTP)
			authRoutes.GET("/validate", requireAuth, h.Validate)
		}

		// --- Public Catalog ---
		api.GET("/products", h.ListProducts)
		api.GET("/products/category/:category", h.ProductsByCategory)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/:id/reviews", h.ListReviews)
		api.GET("/categories", h.ListCategories(true))
		api.GET("/categories/:slug", h.GetCategory)
		api.GET("/categories/:slug/subcategories", h.CategorySubcategories)
		api.GET("/subcategories", h.ListSubcategories)
		api.GET("/shades", h.ListShades(true))
		api.GET("/sliders", h.ListSliders(true))
		api.POST("/contact", optionalAuth, h.SubmitContact)
		api.POST("/assistant/chat", h.AssistantChat)

		// --- PayPal Redirect Targets (Public) ---
		api.GET("/payments/paypal/success", h.PayPalSuccess)
		api.GET("/payments/paypal/cancel", h.PayPalCancel)

		// --- Protected Routes (Login Required) ---
		authed := api.Group("")
		authed.Use(requireAuth)
		{
			authed.PUT("/users/:id", h.UpdateProfile)
			authed.PUT("/users/:id/password", h.ChangePassword)

			authed.GET("/products/:id/can-review", h.CanReview)
			authed.POST("/products/:id/reviews", h.CreateReview)

			authed.POST("/orders", h.CreateOrder)
			authed.GET("/orders", h.ListOrders)
			authed.GET("/orders/:id", h.GetOrder)
			authed.GET("/orders/:id/tracking", h.TrackOrder)
			authed.GET("/orders/:id/invoice", h.DownloadInvoice)
			authed.POST("/orders/:id/cancel", h.CancelOrder)

			authed.POST("/payments/paypal/create-order", h.CreatePayPalOrder)
			authed.POST("/payments/paypal/verify", h.VerifyPayPal)

			authed.GET("/notifications", h.ListNotifications)
			authed.PUT("/notifications/:id/read", h.MarkNotificationRead)

			authed.POST("/upload/image", h.UploadImage)
		}

		// --- Admin Catalog Writes ---
		catalog := api.Group("")
		catalog.Use(requireAuth, requireAdmin)
		{
			catalog.POST("/products", h.CreateProduct)
			catalog.PUT("/products/:id", h.UpdateProduct)
			catalog.DELETE("/products/:id", h.DeleteProduct)

			catalog.POST("/categories", h.CreateCategory)
			catalog.PUT("/categories/:id", h.UpdateCategory)
			catalog.DELETE("/categories/:id", h.DeleteCategory)

			catalog.POST("/subcategories", h.CreateSubcategory)
			catalog.PUT("/subcategories/:id", h.UpdateSubcategory)
			catalog.DELETE("/subcategories/:id", h.DeleteSubcategory)

			catalog.PUT("/orders/:id/status", h.UpdateOrderStatus)
		}

		// --- Admin-Only Routes ---
		admin := api.Group("/admin")
		admin.Use(middleware.WebsocketToken(), requireAuth, requireAdmin)
		{
			admin.GET("/dashboard-stats", h.DashboardStats)
			admin.GET("/ws/orders", h.OrdersFeed)

			admin.GET("/orders", h.AdminListOrders)
			admin.GET("/orders/export", h.ExportOrders)
			admin.GET("/products/export", h.ExportProducts)
			admin.POST("/products/:id/ai-copy", h.GenerateProductCopy)

			admin.GET("/categories", h.ListCategories(false))

			admin.GET("/customers", h.AdminListCustomers)
			admin.GET("/customers/:id", h.AdminGetCustomer)
			admin.DELETE("/customers/:id", h.AdminDeleteCustomer)

			admin.GET("/contact-submissions", h.AdminListContacts)
			admin.GET("/contact-submissions/:id", h.AdminGetContact)
			admin.PUT("/contact-submissions/:id", h.AdminUpdateContact)
			admin.DELETE("/contact-submissions/:id", h.AdminDeleteContact)

			admin.GET("/shades", h.ListShades(false))
			admin.POST("/shades", h.CreateShade)
			admin.PUT("/shades/:id", h.UpdateShade)
			admin.DELETE("/shades/:id", h.DeleteShade)

			admin.GET("/sliders", h.ListSliders(false))
			admin.POST("/sliders", h.CreateSlider)
			admin.PUT("/sliders/:id", h.UpdateSlider)
			admin.DELETE("/sliders/:id", h.DeleteSlider)

			admin.POST("/upload-image", h.UploadImage)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
	return router
}
