package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/vidora/vidora-go/internal/config"
	"github.com/vidora/vidora-go/internal/db"
	"github.com/vidora/vidora-go/internal/handler"
	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/repository"
	"github.com/vidora/vidora-go/internal/router"
	"github.com/vidora/vidora-go/internal/service"
	"github.com/vidora/vidora-go/pkg/token"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "vidora")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	assets, err := service.NewAssetService(ctx, service.AssetConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Bucket:    cfg.MinioBucket,
		PublicURL: cfg.PublicAssetURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to object store")
	}

	handler.InitMetrics(pool)

	tokens := token.NewManager(cfg.JWTSecret)

	// Repositories
	users := repository.NewUserRepo(pool)
	videos := repository.NewVideoRepo(pool)
	tweets := repository.NewTweetRepo(pool)
	comments := repository.NewCommentRepo(pool)
	likes := repository.NewLikeRepo(pool)
	playlists := repository.NewPlaylistRepo(pool)
	subscriptions := repository.NewSubscriptionRepo(pool)
	notifications := repository.NewNotificationRepo(pool)
	dashboard := repository.NewDashboardRepo(pool)
	maintenance := repository.NewMaintenanceRepo(pool)

	// Services
	authSvc := service.NewAuthService(users, tokens, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userSvc := service.NewUserService(users, maintenance, assets)
	videoSvc := service.NewVideoService(videos, subscriptions, maintenance, assets, cache)
	tweetSvc := service.NewTweetService(tweets, subscriptions, maintenance, assets)
	commentSvc := service.NewCommentService(comments, videos)
	likeSvc := service.NewLikeService(likes, cache)
	playlistSvc := service.NewPlaylistService(playlists)
	subSvc := service.NewSubscriptionService(subscriptions, cache)
	notifSvc := service.NewNotificationService(notifications)
	dashSvc := service.NewDashboardService(dashboard, cache)

	// Background workers
	notifyWorker := service.NewNotifyWorker(pool, notifications)
	go notifyWorker.Start(ctx)

	reconcileWorker := service.NewReconcileWorker(maintenance, assets, 10*time.Minute)
	go reconcileWorker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Vidora API",
		ServerHeader: "Vidora",
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	})

	h := &router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, assets, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.Environment == "production"),
		User:         handler.NewUserHandler(userSvc),
		Video:        handler.NewVideoHandler(videoSvc),
		Like:         handler.NewLikeHandler(likeSvc),
		Comment:      handler.NewCommentHandler(commentSvc),
		Tweet:        handler.NewTweetHandler(tweetSvc),
		Playlist:     handler.NewPlaylistHandler(playlistSvc),
		Subscription: handler.NewSubscriptionHandler(subSvc),
		Notification: handler.NewNotificationHandler(notifSvc),
		Dashboard:    handler.NewDashboardHandler(dashSvc),
		Health:       handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, h, tokens, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("vidora backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
