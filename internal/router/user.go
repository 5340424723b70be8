package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// All user routes require an access token
		users.Use(r.authGuard.RequireAccess())
		{
			// Authenticated caller's own profile
			users.GET("/me", r.userHandler.Me)
		}
	}
}
