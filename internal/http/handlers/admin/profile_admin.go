package admin

import (
	"github.com/inkfolio-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Profile returns the authenticated admin's own account.
func (h *Handler) Profile(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	account, err := h.AdminRepo.GetByID(adminID)
	if err != nil || account == nil {
		respondError(c, response.CodeNotFound, "admin not found", err)
		return
	}
	response.Success(c, gin.H{"admin": account})
}
