package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimbrus/accounts-api/internal/constants"
	"github.com/nimbrus/accounts-api/internal/dto"
	ctxutil "github.com/nimbrus/accounts-api/pkg/context"
	"github.com/nimbrus/accounts-api/pkg/logger"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the authenticated caller's profile. The access guard has
// already resolved it; this handler only reads it back out.
func (h *UserHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewRequestContext(c.Request.Context(), "handler", "Me")

	value, exists := c.Get(constants.GinKeyProfile)
	if !exists {
		logger.WarnWithContext(ctx, "Profile missing from authenticated request").
			Log()
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	profile, ok := value.(*dto.UserResponse)
	if !ok {
		logger.ErrorWithContext(ctx, "Unexpected profile type in context").
			Log()
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, nil))
		return
	}

	c.JSON(http.StatusOK, profile)
}
