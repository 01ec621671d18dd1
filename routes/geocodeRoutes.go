package routes

import (
	"civictrack/controllers"

	"github.com/gin-gonic/gin"
)

func GeocodeRoutes(r *gin.RouterGroup, g *controllers.GeocodeController) {
	r.GET("/geocode/search", g.SearchPlaces)
}
