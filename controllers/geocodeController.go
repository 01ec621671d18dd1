package controllers

import (
	"net/http"

	"civictrack/geocode"
	"civictrack/middlewares"

	"github.com/gin-gonic/gin"
)

type GeocodeController struct {
	Places geocode.Searcher
}

// SearchPlaces proxies a free-text place search. Terms shorter than
// geocode.MinQueryLength yield an empty list.
func (g *GeocodeController) SearchPlaces(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	places, err := g.Places.Search(ctx, c.Query("q"))
	if err != nil {
		middlewares.Logger(c).Error().Err(err).Msg("place search failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Place search unavailable"})
		return
	}
	if places == nil {
		places = []geocode.Place{}
	}
	c.JSON(http.StatusOK, places)
}
