package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

// CategoryInput is the body of category create and update.
type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Status      string `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

// SubcategoryInput is the body of subcategory create and update.
type SubcategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId" binding:"required"`
	Status      string `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

// --- Categories ---

// ListCategories handles GET /api/categories (active only, with their
// subcategories) and GET /api/admin/categories (everything).
func (h *Handlers) ListCategories(activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := h.Store.ListCategories(c.Request.Context(), activeOnly, true)
		if err != nil {
			h.storeError(c, err, "Categories", "fetch categories")
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// category resolves the :slug parameter, which may also be a numeric id.
func (h *Handlers) category(c *gin.Context) (*models.Category, error) {
	ref := c.Param("slug")
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return h.Store.GetCategoryByID(c.Request.Context(), id)
	}
	return h.Store.GetCategoryBySlug(c.Request.Context(), ref)
}

// GetCategory handles GET /api/categories/:slug
func (h *Handlers) GetCategory(c *gin.Context) {
	category, err := h.category(c)
	if err != nil {
		h.storeError(c, err, "Category", "fetch category")
		return
	}
	subs, err := h.Store.ListSubcategories(c.Request.Context(), category.ID, true)
	if err != nil {
		h.storeError(c, err, "Category", "fetch category")
		return
	}
	category.Subcategories = make([]models.Subcategory, 0, len(subs))
	for _, s := range subs {
		category.Subcategories = append(category.Subcategories, *s)
	}
	c.JSON(http.StatusOK, category)
}

// CategorySubcategories handles GET /api/categories/:slug/subcategories
func (h *Handlers) CategorySubcategories(c *gin.Context) {
	category, err := h.category(c)
	if err != nil {
		h.storeError(c, err, "Category", "fetch subcategories")
		return
	}
	subs, err := h.Store.ListSubcategories(c.Request.Context(), category.ID, true)
	if err != nil {
		h.storeError(c, err, "Subcategories", "fetch subcategories")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// CreateCategory handles POST /api/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required", "details": err.Error()})
		return
	}
	category := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Status:      input.Status,
	}
	if err := h.Store.CreateCategory(c.Request.Context(), category); err != nil {
		h.storeError(c, err, "Category", "create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/:id
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	category, err := h.Store.GetCategoryByID(ctx, id)
	if err != nil {
		h.storeError(c, err, "Category", "update category")
		return
	}
	name := strings.TrimSpace(input.Name)
	if name != category.Name {
		category.Slug = ""
	}
	category.Name = name
	category.Description = input.Description
	category.ImageURL = input.ImageURL
	if input.Status != "" {
		category.Status = input.Status
	}

	if err := h.Store.UpdateCategory(ctx, category); err != nil {
		h.storeError(c, err, "Category", "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories/:id
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteCategory(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Category", "delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// --- Subcategories ---

// ListSubcategories handles GET /api/subcategories?categoryId=
func (h *Handlers) ListSubcategories(c *gin.Context) {
	categoryID, _ := strconv.ParseInt(c.Query("categoryId"), 10, 64)
	subs, err := h.Store.ListSubcategories(c.Request.Context(), categoryID, c.Query("all") != "true")
	if err != nil {
		h.storeError(c, err, "Subcategories", "fetch subcategories")
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *Handlers) subcategoryError(c *gin.Context, err error, action string) {
	if errors.Is(err, store.ErrUnknownCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category does not exist"})
		return
	}
	h.storeError(c, err, "Subcategory", action)
}

// CreateSubcategory handles POST /api/subcategories
func (h *Handlers) CreateSubcategory(c *gin.Context) {
	var input SubcategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and categoryId are required", "details": err.Error()})
		return
	}
	sub := &models.Subcategory{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Status:      input.Status,
	}
	if err := h.Store.CreateSubcategory(c.Request.Context(), sub); err != nil {
		h.subcategoryError(c, err, "create subcategory")
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// UpdateSubcategory handles PUT /api/subcategories/:id
func (h *Handlers) UpdateSubcategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input SubcategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and categoryId are required", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	sub, err := h.Store.GetSubcategory(ctx, id)
	if err != nil {
		h.storeError(c, err, "Subcategory", "update subcategory")
		return
	}
	name := strings.TrimSpace(input.Name)
	if name != sub.Name {
		sub.Slug = ""
	}
	sub.Name = name
	sub.Description = input.Description
	sub.CategoryID = input.CategoryID
	if input.Status != "" {
		sub.Status = input.Status
	}

	if err := h.Store.UpdateSubcategory(ctx, sub); err != nil {
		h.subcategoryError(c, err, "update subcategory")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// DeleteSubcategory handles DELETE /api/subcategories/:id
func (h *Handlers) DeleteSubcategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteSubcategory(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Subcategory", "delete subcategory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subcategory deleted successfully"})
}
