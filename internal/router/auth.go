package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		// Public routes (no authentication required)
		auth.POST("/signup", r.authHandler.SignUp)
		auth.POST("/login", r.authHandler.Login)

		// Refresh requires a valid refresh token cookie, not an access token
		refresh := auth.Group("")
		refresh.Use(r.authGuard.RequireRefresh())
		{
			refresh.POST("/refresh", r.authHandler.Refresh)
		}

		// Protected routes (access token required)
		protected := auth.Group("")
		protected.Use(r.authGuard.RequireAccess())
		{
			protected.POST("/logout", r.authHandler.Logout)
		}
	}
}
