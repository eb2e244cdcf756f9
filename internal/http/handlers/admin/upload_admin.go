package admin

import (
	"github.com/inkfolio-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Upload stores a file from a multipart form. The optional scene form field
// picks the storage bucket (product, category, character, comic, common).
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "missing file", err)
		return
	}
	scene := c.PostForm("scene")

	path, err := h.UploadService.SaveFile(file, scene)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, gin.H{"path": path})
}
