package controllers

import (
	"net/http"

	"civictrack/middlewares"
	"civictrack/models"
	"civictrack/repository"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users repository.UserRepository
}

// ListUsers returns the users holding the requested role. Anyone signed in
// may list admins; other listings need an admin.
func (u *UserController) ListUsers(c *gin.Context) {
	role := models.Role("")
	if s := c.Query("role"); s != "" {
		r, ok := models.ParseRole(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		role = r
	}

	if role != models.RoleAdmin && !middlewares.CurrentRole(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := u.Users.ListByRole(ctx, role)
	if err != nil {
		respondServerError(c, err, "Failed to retrieve users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}
