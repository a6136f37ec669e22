package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hostel-sentinel/internal/config"
	httpapi "hostel-sentinel/internal/http"
	"hostel-sentinel/internal/logger"
	"hostel-sentinel/internal/notify"
	"hostel-sentinel/internal/repository"
	"hostel-sentinel/internal/service"
	"hostel-sentinel/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "hostel-sentinel")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	kv := store.NewRedisKV(redisClient)

	prefix := cfg.Store.KeyPrefix
	tracker := service.NewTracker(
		repository.NewRoomsRepo(kv, prefix),
		repository.NewIssuesRepo(kv, prefix),
		repository.NewUserRepo(kv, prefix),
		log,
	)
	if err := tracker.Seed(context.Background()); err != nil {
		log.Fatal("Failed to seed room roster", zap.Error(err))
	}

	if cfg.MQTT.Enabled {
		publisher, err := notify.NewMQTTPublisher(cfg)
		if err != nil {
			log.Warn("MQTT enabled but connection failed, alerts disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			tracker.SetNotifier(publisher)
			log.Info("Spike alerts enabled", zap.String("topic", cfg.MQTT.Topic))
		}
	}

	handler := httpapi.NewSentinelHandler(tracker, log, cfg.Forecast.WindowDays, cfg.Forecast.HorizonDays)
	router := httpapi.NewRouter(log)
	router.RegisterSentinelRoutes(handler)

	server := service.NewServer(cfg.HTTP.Addr, router, log)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
}
