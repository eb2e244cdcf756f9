package shared

import (
	"strconv"
	"strings"

	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUint reads a uint from the gin context, emitting the matching
// error envelope when the value is missing or malformed.
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid "+key, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid "+key, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "unexpected "+key+" type", nil)
		return 0, false
	}
}

// SessionToken reads the cart session token header. The second return is
// false when the header is absent, after an error envelope was written.
func SessionToken(c *gin.Context) (string, bool) {
	token := strings.TrimSpace(c.GetHeader(constants.SessionTokenHeader))
	if token == "" {
		RespondError(c, response.CodeBadRequest, "missing session token", nil)
		return "", false
	}
	return token, true
}

// ParseIDParam reads a positive uint path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}
