package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"giveaway-bot/internal/common/config"
	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/common/middleware"
	giveawayHTTP "giveaway-bot/internal/features/giveaway/delivery/http"
	giveawayRepo "giveaway-bot/internal/features/giveaway/repository/redis"
	giveawayService "giveaway-bot/internal/features/giveaway/service"
	"giveaway-bot/internal/platform/discord"
	"giveaway-bot/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if _, err := logger.Init("giveaway-bot", logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Debug:  cfg.Debug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	log.Info().Bool("debug", cfg.Debug).Msg("Starting giveaway bot")

	ctx := context.Background()

	redisClient, err := redis.Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	log.Info().Str("addr", cfg.RedisAddr()).Msg("Redis connection established")

	discordClient, err := discord.Open(cfg.Discord.BotToken, logger.Component("discord"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Discord")
	}
	defer discordClient.Close()

	repo := giveawayRepo.NewRedisGiveawayRepository(redisClient, logger.Component("store"))
	svc := giveawayService.NewGiveawayService(
		repo,
		discordClient,
		giveawayService.PolicyFromConfig(cfg),
		logger.Component("giveaway"),
	)
	notifier := giveawayService.NewNotifier(discordClient, cfg.Sweep.NotificationTimeout, logger.Component("notifier"))
	expiration := giveawayService.NewExpirationService(repo, svc, notifier, giveawayService.SweepOptions{
		Interval:            cfg.Sweep.Interval,
		Buffer:              cfg.Sweep.Buffer,
		NotificationTimeout: cfg.Sweep.NotificationTimeout,
		MaxConcurrent:       cfg.Sweep.MaxConcurrent,
	}, logger.Component("expiration"))

	if err := expiration.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start expiration service")
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(middleware.ErrorHandler(logger.Component("http")))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, redisClient, giveawayHTTP.NewGiveawayHandler(svc, notifier, expiration, logger.Component("http")))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := expiration.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to stop expiration service")
	}

	log.Info().Msg("Bot exited")
}

func setupRoutes(router *gin.Engine, redisClient *goredis.Client, giveaways *giveawayHTTP.GiveawayHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		if err := redis.Ping(c.Request.Context(), redisClient); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := router.Group("/api/v1")
	giveaways.RegisterRoutes(v1)
}
