package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/devtree-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/devtree-api/internal/auth"
	"github.com/redmonkez12/devtree-api/internal/config"
	"github.com/redmonkez12/devtree-api/internal/database"
	httpServer "github.com/redmonkez12/devtree-api/internal/http"
	"github.com/redmonkez12/devtree-api/internal/logging"
	"github.com/redmonkez12/devtree-api/internal/ratelimit"
	"github.com/redmonkez12/devtree-api/internal/storage"
	"github.com/redmonkez12/devtree-api/internal/user"
)

// @title           DevTree API
// @version         1.0
// @description     User-profile service: registration, login, profiles, avatars and handle lookup.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	ctx := context.Background()

	// Mongo connection is held for the process lifetime and closed on shutdown
	mongoClient, err := database.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return fmt.Errorf("failed to initialize mongodb: %w", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect mongodb", "error", err.Error())
		}
	}()

	db := mongoClient.Database(cfg.Mongo.Database)

	userRepo := user.NewRepository(db)
	if err := database.EnsureUserIndexes(ctx, userRepo.Collection()); err != nil {
		return err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	imageStore, err := storage.NewS3Store(ctx, storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize image storage: %w", err)
	}

	pasetoService, err := auth.NewPasetoService(cfg.Auth.PasetoKey)
	if err != nil {
		return fmt.Errorf("failed to initialize PASETO service: %w", err)
	}

	rateLimiter := ratelimit.NewLimiter(redisClient)

	authService := auth.NewService(userRepo, pasetoService, logger, cfg.Auth.TokenDuration)
	authHandler := auth.NewHandler(authService, rateLimiter, logger)
	authMiddleware := auth.NewMiddleware(pasetoService, userRepo)
	userHandler := user.NewHandler(userRepo, imageStore, logger)

	router := httpServer.NewRouter(cfg, authHandler, userHandler, authMiddleware, logger)
	server := httpServer.NewServer(":"+cfg.Server.Port, router, logger, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
