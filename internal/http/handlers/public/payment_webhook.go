package public

import (
	"errors"
	"io"

	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentWebhook receives asynchronous payment notifications. Signature
// verification happens inside the provider; a bad signature is rejected so
// the gateway retries, while an unknown order is acknowledged and dropped.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, response.CodeBadRequest, "failed to read webhook body", err)
		return
	}

	headers := make(map[string]string, len(c.Request.Header))
	for key := range c.Request.Header {
		headers[key] = c.GetHeader(key)
	}

	if err := h.OrderService.HandleWebhook(headers, body); err != nil {
		if errors.Is(err, service.ErrWebhookUnsupported) {
			respondError(c, response.CodeBadRequest, "webhook not supported", nil)
			return
		}
		shared.RequestLog(c).Warnw("payment_webhook_rejected", "error", err)
		respondError(c, response.CodeBadRequest, "webhook rejected", nil)
		return
	}
	response.SuccessWithMsg(c, "ok", nil)
}
