package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	Env  string `envconfig:"GO_ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	// StoreDriver selects the issue store: "mongo" or "memory" (development only).
	StoreDriver   string `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI      string `envconfig:"MONGODB_URI"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"civictrack"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	RedisAddress    string `envconfig:"REDIS_ADDRESS"`
	RedisPassword   string `envconfig:"REDIS_PASSWORD"`
	IssueLimitQueue string `envconfig:"REDIS_QUEUE_FOR_ISSUE_LIMIT" default:"issue-limit"`
	IssueDailyLimit int    `envconfig:"ISSUE_DAILY_LIMIT" default:"10"`

	CORSOrigins []string `envconfig:"CORS_ORIGIN" default:"http://localhost:5173"`

	UploadDir      string `envconfig:"UPLOAD_DIR" default:"uploads"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`

	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"issue-images"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL"`
	MinioPublicURL string `envconfig:"MINIO_PUBLIC_URL"`

	GeocoderURL       string `envconfig:"GEOCODER_URL" default:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string `envconfig:"GEOCODER_USER_AGENT" default:"civictrack/1.0"`

	AdminName     string `envconfig:"ADMIN_NAME" default:"Administrator"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
