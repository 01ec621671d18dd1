package routes

import (
	"civictrack/controllers"
	"civictrack/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.RouterGroup, auth *controllers.AuthController, secret string) {
	group := r.Group("/auth")
	{
		group.POST("/register", auth.RegisterUser)
		group.POST("/login", auth.LoginUser)
		group.GET("/me", middlewares.AuthMiddleware(secret), auth.GetMe)
	}
}
