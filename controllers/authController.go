package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"civictrack/middlewares"
	"civictrack/models"
	"civictrack/repository"
	authUtils "civictrack/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Users     repository.UserRepository
	JWTSecret string
	TokenTTL  time.Duration
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

// RegisterUser handles user registration. Self-registered accounts are
// always plain users.
func (a *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	now := time.Now().UTC()
	user := models.User{
		Name:      strings.TrimSpace(input.Name),
		Email:     input.Email,
		Password:  input.Password,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.HashPassword(); err != nil {
		respondServerError(c, err, "Something went wrong")
		return
	}

	if err := a.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
			return
		}
		respondServerError(c, err, "Something went wrong")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userJSON(&user),
	})
}

// LoginUser checks the credentials and issues a bearer token
func (a *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := a.Users.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondServerError(c, err, "Something went wrong")
		return
	}
	if user == nil || !user.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateToken(a.JWTSecret, user.ID.Hex(), user.Role, a.tokenTTL())
	if err != nil {
		respondServerError(c, err, "Something went wrong")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userJSON(user),
	})
}

func (a *AuthController) tokenTTL() time.Duration {
	if a.TokenTTL > 0 {
		return a.TokenTTL
	}
	return authUtils.TokenTTL
}

// GetMe retrieves the authenticated user's information
func (a *AuthController) GetMe(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := a.Users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		respondServerError(c, err, "Something went wrong")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// SeedAdmin creates the configured admin account unless the email is taken.
// It reports whether an account was created.
func SeedAdmin(ctx context.Context, users repository.UserRepository, name, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	now := time.Now().UTC()
	admin := models.User{
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := admin.HashPassword(); err != nil {
		return false, err
	}
	if err := users.Create(ctx, &admin); err != nil {
		return false, err
	}
	return true, nil
}
