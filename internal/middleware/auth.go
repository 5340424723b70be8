package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nimbrus/accounts-api/internal/constants"
	"github.com/nimbrus/accounts-api/internal/service"
	ctxutil "github.com/nimbrus/accounts-api/pkg/context"
	"github.com/nimbrus/accounts-api/pkg/logger"
	"go.uber.org/zap"
)

// AuthGuard holds the two token guards. The access guard reads the
// Authorization header; the refresh guard reads the refresh cookie.
// Both respond with the same generic 401 body on every failure path.
type AuthGuard struct {
	tokens *service.TokenService
	auth   *service.AuthService
}

func NewAuthGuard(tokens *service.TokenService, auth *service.AuthService) *AuthGuard {
	return &AuthGuard{
		tokens: tokens,
		auth:   auth,
	}
}

// RequireAccess validates the bearer access token and resolves the
// caller's profile into the Gin context.
func (g *AuthGuard) RequireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			logger.GetLogger().Warn("Missing or malformed Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		userID, err := g.tokens.VerifyAccessToken(tokenString)
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired access token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		// A structurally valid token must still reference a live user.
		profile, err := g.auth.ValidateByAccessToken(c.Request.Context(), userID)
		if err != nil {
			logger.GetLogger().Warn("Access token user resolution failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(constants.GinKeyUserID, userID)
		c.Set(constants.GinKeyProfile, profile)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// RequireRefresh validates the refresh token cookie and sets the user
// id into the Gin context. The profile is not resolved here; the
// refresh handler does its own lookup.
func (g *AuthGuard) RequireRefresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(constants.RefreshCookieName)
		if err != nil || tokenString == "" {
			logger.GetLogger().Warn("Missing refresh token cookie",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		userID, err := g.tokens.VerifyRefreshToken(tokenString)
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired refresh token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(constants.GinKeyUserID, userID)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != constants.BearerScheme || tokenParts[1] == "" {
		return "", false
	}

	return tokenParts[1], true
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
	c.Abort()
}
