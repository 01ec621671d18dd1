package routes

import (
	"civictrack/controllers"
	"civictrack/middlewares"

	"github.com/gin-gonic/gin"
)

func UserRoutes(r *gin.RouterGroup, u *controllers.UserController, secret string) {
	users := r.Group("/users")
	{
		users.GET("", middlewares.AuthMiddleware(secret), u.ListUsers)
	}
}
