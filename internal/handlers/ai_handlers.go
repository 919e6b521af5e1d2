package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/glowbeauty-golang/internal/ai"
)

// ChatInput defines the structure of the JSON request body.
type ChatInput struct {
	Message string `json:"message" binding:"required,max=2000"`
}

func (h *Handlers) assistantEnabled(c *gin.Context) bool {
	if h.Assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ai.ErrDisabled.Error()})
		return false
	}
	return true
}

// AssistantChat handles POST /api/assistant/chat, the shopping assistant.
func (h *Handlers) AssistantChat(c *gin.Context) {
	if !h.assistantEnabled(c) {
		return
	}

	// 1. Parse Input
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	// 2. Call the AI Service
	reply, err := h.Assistant.Chat(c.Request.Context(), message)
	if err != nil {
		h.log().Error("assistant chat failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI Service unavailable"})
		return
	}

	// 3. Return Response
	c.JSON(http.StatusOK, reply)
}

// GenerateProductCopy handles POST /api/admin/products/:id/ai-copy. The
// draft is returned for review and not saved.
func (h *Handlers) GenerateProductCopy(c *gin.Context) {
	if !h.assistantEnabled(c) {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	product, err := h.Store.GetProductByID(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Product", "generate product copy")
		return
	}

	draft, err := h.Assistant.GenerateProductCopy(c.Request.Context(), product)
	if err != nil {
		h.log().Error("product copy generation failed", "product_id", id, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI Service unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": id, "copy": draft})
}
