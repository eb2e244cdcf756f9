package public

import (
	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

var cartErrorRules = []shared.ErrorRule{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound},
	{Target: service.ErrVariantNotFound, Code: response.CodeNotFound},
	{Target: service.ErrCartNotFound, Code: response.CodeNotFound},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest},
	{Target: service.ErrInvalidDiscount, Code: response.CodeBadRequest},
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest},
}

var productLookupErrorRules = []shared.ErrorRule{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound},
}

var characterLookupErrorRules = []shared.ErrorRule{
	{Target: service.ErrCharacterNotFound, Code: response.CodeNotFound},
}

var comicLookupErrorRules = []shared.ErrorRule{
	{Target: service.ErrComicNotFound, Code: response.CodeNotFound},
}

var orderLookupErrorRules = []shared.ErrorRule{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound},
}

var checkoutErrorRules = []shared.ErrorRule{
	{Target: service.ErrCartNotFound, Code: response.CodeNotFound},
	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest},
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest},
}
