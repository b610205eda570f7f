package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidhub/internal/core"
	httpProtocol "vidhub/internal/protocols/http"
	"vidhub/internal/repository"
	"vidhub/pkg/blob"
	"vidhub/pkg/cache"
	"vidhub/pkg/config"
	"vidhub/pkg/database"
	"vidhub/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.Logging.Level, Env: cfg.Logging.Env}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	pool, err := database.NewPool(cfg.Database)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	blobs, err := blob.NewMinioStore(cfg.Blob)
	if err != nil {
		logger.Fatalf("connect to blob store: %v", err)
	}

	// The cache is an optimization; the server runs without it.
	var detailCache core.VideoDetailCache
	videoCache, err := cache.NewVideoCache(cfg.Redis)
	if err != nil {
		logger.Warnf("video cache disabled: %v", err)
	} else {
		detailCache = videoCache
		defer videoCache.Close()
	}

	userRepo := repository.NewUserRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	likeRepo := repository.NewLikeRepository(pool)
	playlistRepo := repository.NewPlaylistRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	notificationSvc := core.NewNotificationService(notificationRepo, subscriptionRepo, userRepo)
	authSvc := core.NewAuthService(userRepo, blobs, cfg.JWT)
	videoSvc := core.NewVideoService(videoRepo, userRepo, blobs, detailCache, notificationSvc, cfg.Server.BaseURL)
	commentSvc := core.NewCommentService(commentRepo, videoRepo, userRepo, notificationSvc)
	likeSvc := core.NewLikeService(likeRepo, videoRepo, commentRepo)
	playlistSvc := core.NewPlaylistService(playlistRepo, videoRepo)
	subscriptionSvc := core.NewSubscriptionService(subscriptionRepo, userRepo, notificationSvc)
	channelSvc := core.NewChannelService(userRepo, subscriptionRepo, videoSvc)

	server := httpProtocol.NewServer(
		cfg,
		authSvc,
		videoSvc,
		commentSvc,
		likeSvc,
		playlistSvc,
		subscriptionSvc,
		notificationSvc,
		channelSvc,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Infof("http server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
