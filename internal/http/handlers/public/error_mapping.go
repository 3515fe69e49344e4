package public

import (
	"errors"

	handlershared "github.com/laundro-next/internal/http/handlers/shared"
	"github.com/laundro-next/internal/http/response"
	"github.com/laundro-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// respondServiceError 将服务层哨兵错误映射为响应码
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrStoreNotFound),
		errors.Is(err, service.ErrMachineNotFound):
		respondError(c, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrOrderStatusInvalid):
		respondError(c, response.CodeConflict, err.Error(), nil)
	case errors.Is(err, service.ErrMachineSelectionInvalid),
		errors.Is(err, service.ErrStoreInactive):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "internal error", err)
	}
}
