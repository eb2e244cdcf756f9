package shared

import (
	"errors"

	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog returns a logger that carries the request id when present.
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError writes an error envelope and logs the cause when one exists.
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// ErrorRule maps one service sentinel to a business status code. The
// sentinel's own message is what the client sees.
type ErrorRule struct {
	Target error
	Code   int
}

// RespondMappedError matches err against rules; unmatched errors become an
// internal error with the fallback message and the cause logged.
func RespondMappedError(c *gin.Context, err error, rules []ErrorRule, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Target.Error(), nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, fallbackMsg, err)
}
