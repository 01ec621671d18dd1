package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"civictrack/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// requestTimeout bounds every store call made while serving a request.
const requestTimeout = 10 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondValidation writes a 400 naming each offending field when the error
// comes from the validator.
func respondValidation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func respondFieldErrors(c *gin.Context, details map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
}

// respondServerError logs err with the request logger and hides it from
// the caller.
func respondServerError(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	middlewares.Logger(c).Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
