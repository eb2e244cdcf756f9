package admin

import (
	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

var catalogErrorRules = []shared.ErrorRule{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound},
	{Target: service.ErrVariantNotFound, Code: response.CodeNotFound},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound},
	{Target: service.ErrSlugTaken, Code: response.CodeBadRequest},
	{Target: service.ErrCategoryInUse, Code: response.CodeBadRequest},
}

var orderErrorRules = []shared.ErrorRule{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound},
	{Target: service.ErrInvalidOrderStatus, Code: response.CodeBadRequest},
	{Target: service.ErrOrderNotPending, Code: response.CodeBadRequest},
	{Target: service.ErrOrderNotPaid, Code: response.CodeBadRequest},
	{Target: service.ErrOrderNotCancelled, Code: response.CodeBadRequest},
	{Target: service.ErrOrderAlreadyPaid, Code: response.CodeBadRequest},
	{Target: service.ErrRefundFailed, Code: response.CodeBadRequest},
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest},
}

var contentErrorRules = []shared.ErrorRule{
	{Target: service.ErrCharacterNotFound, Code: response.CodeNotFound},
	{Target: service.ErrComicNotFound, Code: response.CodeNotFound},
	{Target: service.ErrSlugTaken, Code: response.CodeBadRequest},
}

var notificationErrorRules = []shared.ErrorRule{
	{Target: service.ErrNotificationNotFound, Code: response.CodeNotFound},
}
