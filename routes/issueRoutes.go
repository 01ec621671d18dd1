package routes

import (
	"civictrack/controllers"
	"civictrack/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes. limiter may be nil.
func IssueRoutes(r *gin.RouterGroup, h *controllers.IssueController, secret string, limiter gin.HandlerFunc) {
	auth := middlewares.AuthMiddleware(secret)
	admin := middlewares.RequireAdmin()

	create := []gin.HandlerFunc{auth}
	if limiter != nil {
		create = append(create, limiter)
	}
	create = append(create, h.CreateIssue)

	issue := r.Group("/issues")
	{
		issue.GET("", middlewares.OptionalAuth(secret), h.GetAllIssues)
		issue.POST("", create...)
		issue.POST("/", create...)
		issue.GET("/my", auth, h.GetMyIssues)
		issue.GET("/map", h.GetMapIssues)
		issue.GET("/stats", auth, admin, h.GetIssueStats)
		issue.GET("/:id", middlewares.OptionalAuth(secret), h.GetIssue)
		issue.PATCH("/:id", auth, admin, h.UpdateIssue)
		issue.DELETE("/:id", auth, admin, h.DeleteIssue)
	}
}
