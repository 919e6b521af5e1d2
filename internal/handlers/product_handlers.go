package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/01moynul/glowbeauty-golang/internal/middleware"
	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

// --- Inputs ---

// ProductInput is the body of product create and update. On update, absent
// fields keep their stored value.
type ProductInput struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"shortDescription"`
	Price            *decimal.Decimal `json:"price"`
	OriginalPrice    *decimal.Decimal `json:"originalPrice"`
	SaleOffer        string           `json:"saleOffer"`
	Category         string           `json:"category"`
	Subcategory      string           `json:"subcategory"`
	Tags             string           `json:"tags"`
	ImageURL         string           `json:"imageUrl"`
	Images           []string         `json:"images"`
	InStock          *bool            `json:"inStock"`
	Featured         *bool            `json:"featured"`
	Bestseller       *bool            `json:"bestseller"`
	NewLaunch        *bool            `json:"newLaunch"`
	Variants         json.RawMessage  `json:"variants"`
	Ingredients      string           `json:"ingredients"`
	Benefits         string           `json:"benefits"`
	HowToUse         string           `json:"howToUse"`
	Size             string           `json:"size"`
}

// missingFields lists the required fields a new product lacks.
func (in *ProductInput) missingFields() []string {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(in.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	return missing
}

func (in *ProductInput) validatePrices() string {
	if in.Price != nil && in.Price.IsNegative() {
		return "Price cannot be negative"
	}
	if in.OriginalPrice != nil && in.OriginalPrice.IsNegative() {
		return "Original price cannot be negative"
	}
	return ""
}

// apply copies the provided fields onto p.
func (in *ProductInput) apply(p *models.Product) {
	setString := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}

	setString(&p.Name, in.Name)
	setString(&p.Description, in.Description)
	setString(&p.ShortDescription, in.ShortDescription)
	setString(&p.SaleOffer, in.SaleOffer)
	setString(&p.Category, in.Category)
	setString(&p.Subcategory, in.Subcategory)
	setString(&p.Tags, in.Tags)
	setString(&p.ImageURL, in.ImageURL)
	setString(&p.Ingredients, in.Ingredients)
	setString(&p.Benefits, in.Benefits)
	setString(&p.HowToUse, in.HowToUse)
	setString(&p.Size, in.Size)

	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		op := *in.OriginalPrice
		p.OriginalPrice = &op
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if len(in.Variants) > 0 {
		p.Variants = in.Variants
	}
	setBool(&p.InStock, in.InStock)
	setBool(&p.Featured, in.Featured)
	setBool(&p.Bestseller, in.Bestseller)
	setBool(&p.NewLaunch, in.NewLaunch)

	if p.ImageURL == "" && len(p.Images) > 0 {
		p.ImageURL = p.Images[0]
	}
}

// --- Public Catalog ---

// ListProducts handles GET /api/products
func (h *Handlers) ListProducts(c *gin.Context) {
	filter := store.ProductFilter{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Featured:    queryBool(c, "featured"),
		Bestseller:  queryBool(c, "bestseller"),
		NewLaunch:   queryBool(c, "newLaunch"),
		InStock:     queryBool(c, "inStock"),
		Search:      c.Query("search"),
		Limit:       queryInt(c, "limit"),
		Offset:      queryInt(c, "offset"),
	}
	products, err := h.Store.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.storeError(c, err, "Products", "fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /api/products/:id, accepting a numeric id or a slug.
func (h *Handlers) GetProduct(c *gin.Context) {
	ref := c.Param("id")
	var (
		product *models.Product
		err     error
	)
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		product, err = h.Store.GetProductByID(c.Request.Context(), id)
	} else {
		product, err = h.Store.GetProductBySlug(c.Request.Context(), ref)
	}
	if err != nil {
		h.storeError(c, err, "Product", "fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// ProductsByCategory handles GET /api/products/category/:category using the
// loose category match. No match is an empty list.
func (h *Handlers) ProductsByCategory(c *gin.Context) {
	products, err := h.Store.ProductsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.storeError(c, err, "Products", "fetch products by category")
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- Admin Catalog ---

// CreateProduct handles POST /api/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	// 1. --- Bind ---
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data", "details": err.Error()})
		return
	}

	// 2. --- Validation Logic ---
	if missing := input.missingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing required fields: " + strings.Join(missing, ", "),
			"missing": missing,
		})
		return
	}
	if msg := input.validatePrices(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	// 3. --- Save ---
	product := &models.Product{InStock: true}
	input.apply(product)
	if err := h.Store.CreateProduct(c.Request.Context(), product); err != nil {
		h.storeError(c, err, "Product", "create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data", "details": err.Error()})
		return
	}
	if msg := input.validatePrices(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	product, err := h.Store.GetProductByID(ctx, id)
	if err != nil {
		h.storeError(c, err, "Product", "update product")
		return
	}
	input.apply(product)
	if err := h.Store.UpdateProduct(ctx, product); err != nil {
		h.storeError(c, err, "Product", "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteProduct(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Product", "delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- Reviews ---

// ReviewInput is the body of POST /api/products/:id/reviews.
type ReviewInput struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"reviewText"`
	ImageURL   string `json:"imageUrl"`
}

// ListReviews handles GET /api/products/:id/reviews
func (h *Handlers) ListReviews(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.Store.ListProductReviews(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Reviews", "fetch reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// CanReview handles GET /api/products/:id/can-review
func (h *Handlers) CanReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	eligibility, err := h.Store.ReviewEligibility(c.Request.Context(), userID, id)
	if err != nil {
		h.storeError(c, err, "Product", "check review eligibility")
		return
	}
	c.JSON(http.StatusOK, eligibility)
}

// CreateReview handles POST /api/products/:id/reviews. Only customers with a
// delivered order containing the product may review it, once.
func (h *Handlers) CreateReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5", "details": err.Error()})
		return
	}
	userID, _ := middleware.UserID(c)

	review := &models.Review{
		UserID:     userID,
		ProductID:  id,
		Rating:     input.Rating,
		ReviewText: strings.TrimSpace(input.ReviewText),
		ImageURL:   input.ImageURL,
	}
	err := h.Store.CreateReview(c.Request.Context(), review)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, review)
	case errors.Is(err, store.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this product"})
	case errors.Is(err, store.ErrNotEligible):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only review products from delivered orders"})
	default:
		h.storeError(c, err, "Product", "submit review")
	}
}
