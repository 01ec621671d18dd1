package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civictrack/config"
	"civictrack/controllers"
	"civictrack/geocode"
	"civictrack/repository"
	"civictrack/repository/memory"
	"civictrack/routes"
	"civictrack/storage"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const geocodeCacheTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	l := config.NewLogger(cfg.Env)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	issues, users, closeStore, err := openStore(ctx, cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("store setup failed")
	}
	defer closeStore()

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("redis connect failed")
	}
	if rdb != nil {
		defer rdb.Close()
		l.Info().Str("addr", cfg.RedisAddress).Msg("redis connected")
	} else {
		l.Warn().Msg("REDIS_ADDRESS not set, issue rate limiting and geocode cache disabled")
	}

	images, err := openImageStore(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("image store setup failed")
	}

	var places geocode.Searcher = geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderUserAgent)
	if rdb != nil {
		places = &geocode.CachedSearcher{Next: places, Redis: rdb, TTL: geocodeCacheTTL, Prefix: "geocode", Log: l}
	}

	if created, err := controllers.SeedAdmin(ctx, users, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		l.Fatal().Err(err).Msg("admin seed failed")
	} else if created {
		l.Info().Str("email", cfg.AdminEmail).Msg("seeded admin account")
	}

	r, err := routes.NewRouter(routes.Dependencies{
		Config: cfg,
		Log:    l,
		Issues: issues,
		Users:  users,
		Images: images,
		Places: places,
		Redis:  rdb,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("router setup failed")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	l.Info().Msg("shutdown complete")
}

func openStore(ctx context.Context, cfg config.Config, l zerolog.Logger) (repository.IssueRepository, repository.UserRepository, func(), error) {
	if cfg.StoreDriver == "memory" {
		if cfg.IsProduction() {
			return nil, nil, nil, errors.New("memory store is not allowed in production")
		}
		l.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.NewIssueRepo(), memory.NewUserRepo(), func() {}, nil
	}

	client, db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "connect mongo")
	}
	l.Info().Str("database", cfg.MongoDatabase).Msg("MongoDB connection established")

	issues := repository.NewIssueRepo(db.Collection("issues"))
	users := repository.NewUserRepo(db.Collection("users"))

	idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := issues.EnsureIndexes(idxCtx); err != nil {
		return nil, nil, nil, err
	}
	if err := users.EnsureIndexes(idxCtx); err != nil {
		return nil, nil, nil, err
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return issues, users, closeFn, nil
}

func openImageStore(ctx context.Context, cfg config.Config) (storage.ImageStore, error) {
	if cfg.MinioEndpoint != "" {
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
	}
	return storage.NewLocalStore(cfg.UploadDir, "uploads")
}
