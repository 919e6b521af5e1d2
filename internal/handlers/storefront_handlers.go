package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/glowbeauty-golang/internal/middleware"
	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

// --- Shades ---

// ShadeInput is the body of shade create and update.
type ShadeInput struct {
	Name           string  `json:"name" binding:"required"`
	ColorCode      string  `json:"colorCode" binding:"required,hexcolor"`
	Value          string  `json:"value"`
	IsActive       *bool   `json:"isActive"`
	SortOrder      int     `json:"sortOrder"`
	CategoryIDs    []int64 `json:"categoryIds"`
	SubcategoryIDs []int64 `json:"subcategoryIds"`
	ProductIDs     []int64 `json:"productIds"`
	ImageURL       string  `json:"imageUrl"`
}

func (in *ShadeInput) apply(sh *models.Shade) {
	sh.Name = strings.TrimSpace(in.Name)
	sh.ColorCode = strings.ToUpper(in.ColorCode)
	sh.Value = strings.TrimSpace(in.Value)
	if in.IsActive != nil {
		sh.IsActive = *in.IsActive
	}
	sh.SortOrder = in.SortOrder
	sh.CategoryIDs = in.CategoryIDs
	sh.SubcategoryIDs = in.SubcategoryIDs
	sh.ProductIDs = in.ProductIDs
	sh.ImageURL = in.ImageURL
}

func queryID(c *gin.Context, name string) int64 {
	id, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return id
}

// ListShades handles GET /api/shades (active shades, optionally linked to a
// category, subcategory or product) and GET /api/admin/shades (all shades).
func (h *Handlers) ListShades(activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		shades, err := h.Store.ListShades(c.Request.Context(), store.ShadeFilter{
			ActiveOnly:    activeOnly,
			CategoryID:    queryID(c, "categoryId"),
			SubcategoryID: queryID(c, "subcategoryId"),
			ProductID:     queryID(c, "productId"),
		})
		if err != nil {
			h.storeError(c, err, "Shades", "fetch shades")
			return
		}
		c.JSON(http.StatusOK, shades)
	}
}

// CreateShade handles POST /api/admin/shades
func (h *Handlers) CreateShade(c *gin.Context) {
	var input ShadeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and a hex colorCode are required", "details": err.Error()})
		return
	}
	shade := &models.Shade{IsActive: true}
	input.apply(shade)
	if err := h.Store.CreateShade(c.Request.Context(), shade); err != nil {
		h.storeError(c, err, "Shade", "create shade")
		return
	}
	c.JSON(http.StatusCreated, shade)
}

// UpdateShade handles PUT /api/admin/shades/:id
func (h *Handlers) UpdateShade(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input ShadeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and a hex colorCode are required", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	shade, err := h.Store.GetShade(ctx, id)
	if err != nil {
		h.storeError(c, err, "Shade", "update shade")
		return
	}
	input.apply(shade)
	if err := h.Store.UpdateShade(ctx, shade); err != nil {
		h.storeError(c, err, "Shade", "update shade")
		return
	}
	c.JSON(http.StatusOK, shade)
}

// DeleteShade handles DELETE /api/admin/shades/:id
func (h *Handlers) DeleteShade(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteShade(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Shade", "delete shade")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shade deleted successfully"})
}

// --- Sliders ---

// SliderInput is the body of slider create and update.
type SliderInput struct {
	Title       string `json:"title" binding:"required"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" binding:"required"`
	Badge       string `json:"badge"`
	IsActive    *bool  `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
}

func (in *SliderInput) apply(s *models.Slider) {
	s.Title = strings.TrimSpace(in.Title)
	s.Subtitle = in.Subtitle
	s.Description = in.Description
	s.ImageURL = in.ImageURL
	s.Badge = in.Badge
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	s.SortOrder = in.SortOrder
}

// ListSliders handles GET /api/sliders (active) and GET /api/admin/sliders.
func (h *Handlers) ListSliders(activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sliders, err := h.Store.ListSliders(c.Request.Context(), activeOnly)
		if err != nil {
			h.storeError(c, err, "Sliders", "fetch sliders")
			return
		}
		c.JSON(http.StatusOK, sliders)
	}
}

// CreateSlider handles POST /api/admin/sliders
func (h *Handlers) CreateSlider(c *gin.Context) {
	var input SliderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and imageUrl are required", "details": err.Error()})
		return
	}
	slider := &models.Slider{IsActive: true}
	input.apply(slider)
	if err := h.Store.CreateSlider(c.Request.Context(), slider); err != nil {
		h.storeError(c, err, "Slider", "create slider")
		return
	}
	c.JSON(http.StatusCreated, slider)
}

// UpdateSlider handles PUT /api/admin/sliders/:id
func (h *Handlers) UpdateSlider(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input SliderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and imageUrl are required", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	slider, err := h.Store.GetSlider(ctx, id)
	if err != nil {
		h.storeError(c, err, "Slider", "update slider")
		return
	}
	input.apply(slider)
	if err := h.Store.UpdateSlider(ctx, slider); err != nil {
		h.storeError(c, err, "Slider", "update slider")
		return
	}
	c.JSON(http.StatusOK, slider)
}

// DeleteSlider handles DELETE /api/admin/sliders/:id
func (h *Handlers) DeleteSlider(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteSlider(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Slider", "delete slider")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slider deleted successfully"})
}

// --- Contact ---

// ContactInput is the body of POST /api/contact.
// Name and email may be omitted by a signed-in customer; they default to the
// account's details.
type ContactInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message" binding:"required"`
}

// SubmitContact handles POST /api/contact
func (h *Handlers) SubmitContact(c *gin.Context) {
	var input ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and message are required", "details": err.Error()})
		return
	}
	contact := &models.ContactSubmission{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     input.Phone,
		Subject:   input.Subject,
		Message:   input.Message,
	}
	if userID, ok := middleware.UserID(c); ok {
		u, err := h.Store.GetUserByID(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			h.log().Error("contact account lookup failed", "user_id", userID, "error", err)
		}
		if u != nil {
			if contact.FirstName == "" {
				contact.FirstName, contact.LastName = u.FirstName, u.LastName
			}
			if contact.Email == "" {
				contact.Email = u.Email
			}
			if contact.Phone == "" {
				contact.Phone = u.Phone
			}
		}
	}
	if contact.FirstName == "" || contact.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and message are required"})
		return
	}
	if err := h.Store.CreateContact(c.Request.Context(), contact); err != nil {
		h.storeError(c, err, "Contact submission", "submit contact form")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Thank you for contacting us. We will get back to you soon.",
		"id":      contact.ID,
	})
}
