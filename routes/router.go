package routes

import (
	"net/http"
	"time"

	"civictrack/config"
	"civictrack/controllers"
	"civictrack/geocode"
	"civictrack/middlewares"
	"civictrack/models"
	"civictrack/repository"
	"civictrack/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the HTTP layer is built from. Redis is
// optional; without it issue creation is not rate limited.
type Dependencies struct {
	Config config.Config
	Log    zerolog.Logger
	Issues repository.IssueRepository
	Users  repository.UserRepository
	Images storage.ImageStore
	Places geocode.Searcher
	Redis  *redis.Client
}

// NewRouter wires every API route onto a fresh gin engine.
func NewRouter(d Dependencies) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := models.RegisterValidators(v); err != nil {
			return nil, errors.Wrap(err, "register validators")
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(cors.New(corsConfig(d.Config.CORSOrigins)))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if local, ok := d.Images.(*storage.LocalStore); ok {
		r.Static("/"+local.URLPrefix, local.Dir)
	}

	secret := d.Config.JWTSecret
	api := r.Group("/api")

	AuthRoutes(api, &controllers.AuthController{Users: d.Users, JWTSecret: secret}, secret)

	var limiter gin.HandlerFunc
	if d.Redis != nil {
		limiter = middlewares.IssueRateLimiter(d.Redis, d.Config.IssueLimitQueue, d.Config.IssueDailyLimit)
	}
	IssueRoutes(api, &controllers.IssueController{
		Issues:         d.Issues,
		Users:          d.Users,
		Images:         d.Images,
		MaxUploadBytes: d.Config.MaxUploadBytes,
	}, secret, limiter)

	UserRoutes(api, &controllers.UserController{Users: d.Users}, secret)

	if d.Places != nil {
		GeocodeRoutes(api, &controllers.GeocodeController{Places: d.Places})
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
