package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimbrus/accounts-api/internal/constants"
	"github.com/nimbrus/accounts-api/internal/dto"
	apperrors "github.com/nimbrus/accounts-api/internal/errors"
	"github.com/nimbrus/accounts-api/internal/service"
	ctxutil "github.com/nimbrus/accounts-api/pkg/context"
	"github.com/nimbrus/accounts-api/pkg/logger"
	"github.com/nimbrus/accounts-api/pkg/validation"
)

// refreshCookiePath scopes the refresh cookie to the auth routes so
// the browser only sends it where a refresh token is actually read.
const refreshCookiePath = "/api/v1/auth"

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignUp registers a new account and immediately authenticates it.
func (h *AuthHandler) SignUp(c *gin.Context) {
	ctx := ctxutil.NewRequestContext(c.Request.Context(), "handler", "SignUp")

	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid signup request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, gin.H{
			constants.ResponseFieldMessage: validation.MessagesFor(err),
		})
		return
	}

	response, err := h.authService.SignUp(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Signup failed").
			Err(err).
			Log()
		h.renderError(c, err)
		return
	}

	logger.InfoWithContext(ctx, "User signed up").
		String("created_id", response.User.ID).
		Log()

	h.setRefreshCookie(c, response.RefreshToken)
	c.JSON(http.StatusCreated, response)
}

// Login authenticates by any identity field plus password.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewRequestContext(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, gin.H{
			constants.ResponseFieldMessage: validation.MessagesFor(err),
		})
		return
	}

	response, err := h.authService.Login(ctx, req.Identification, req.Password)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			Err(err).
			Log()
		h.renderError(c, err)
		return
	}

	logger.InfoWithContext(ctx, "User logged in").
		String("lookup_id", response.User.ID).
		Log()

	h.setRefreshCookie(c, response.RefreshToken)
	c.JSON(http.StatusAccepted, response)
}

// Logout clears the refresh cookie. Access tokens are stateless and
// simply expire; there is no server-side session to tear down.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewRequestContext(c.Request.Context(), "handler", "Logout")

	userID := c.GetString(constants.GinKeyUserID)

	logger.InfoWithContext(ctx, "User logged out").
		String("lookup_id", userID).
		Log()

	h.clearRefreshCookie(c)
	c.JSON(http.StatusAccepted, constants.BuildSuccessResponse(constants.MsgLoggedOut))
}

// Refresh exchanges a valid refresh cookie for a fresh token pair. The
// guard has already verified the cookie and set the user id.
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := ctxutil.NewRequestContext(c.Request.Context(), "handler", "Refresh")

	userID := c.GetString(constants.GinKeyUserID)
	if userID == "" {
		logger.WarnWithContext(ctx, "Refresh reached handler without user id").
			Log()
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	response, err := h.authService.Refresh(ctx, userID)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			String("lookup_id", userID).
			Err(err).
			Log()
		h.renderError(c, err)
		return
	}

	logger.InfoWithContext(ctx, "Tokens refreshed").
		String("lookup_id", userID).
		Log()

	h.setRefreshCookie(c, response.RefreshToken)
	c.JSON(http.StatusOK, response)
}

// renderError maps a service error onto the wire. Detail lists render
// as a message array, matching the shape of validation failures.
func (h *AuthHandler) renderError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) && len(domainErr.Details) > 0 {
		c.JSON(status, gin.H{
			constants.ResponseFieldMessage: domainErr.Details,
		})
		return
	}

	c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	maxAge := int(h.authService.RefreshCookieMaxAge().Seconds())
	c.SetCookie(constants.RefreshCookieName, token, maxAge, refreshCookiePath, "", false, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(constants.RefreshCookieName, "", -1, refreshCookiePath, "", false, true)
}
