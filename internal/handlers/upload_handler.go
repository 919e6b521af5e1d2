package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxUploadSize caps image uploads.
const MaxUploadSize = 5 << 20

// allowedImageTypes maps sniffed content types to the stored extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadImage handles POST /api/upload/image and /api/admin/upload-image.
// It saves the file to the upload folder and returns its public URL.
func (h *Handlers) UploadImage(c *gin.Context) {
	// 1. Get the file from the request
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}
	if file.Size > MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 5MB)"})
		return
	}

	// 2. Check the content, not the client-supplied name
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload"})
		return
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	src.Close()
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload"})
		return
	}
	ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPEG, PNG, GIF and WebP images are allowed"})
		return
	}

	// 3. Create the upload directory if it doesn't exist
	if err := os.MkdirAll(h.Config.UploadDir, 0o755); err != nil {
		h.log().Error("create upload dir failed", "dir", h.Config.UploadDir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	// 4. Save under a unique filename (uuid + extension)
	newFilename := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.Config.UploadDir, newFilename)); err != nil {
		h.log().Error("save upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	// 5. Return the public URL
	c.JSON(http.StatusOK, gin.H{
		"url":      fmt.Sprintf("%s/api/images/%s", h.Config.BaseURL, newFilename),
		"filename": newFilename,
	})
}

// ServeImage handles GET /api/images/:filename
func (h *Handlers) ServeImage(c *gin.Context) {
	name := filepath.Base(c.Param("filename"))
	if name == "." || name == "/" || name == ".." {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}
	path := filepath.Join(h.Config.UploadDir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
