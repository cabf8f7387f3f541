package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mxkvch/valentine/internal/blobstore"
	"github.com/mxkvch/valentine/internal/carousel"
	"github.com/mxkvch/valentine/internal/config"
	"github.com/mxkvch/valentine/internal/httpserver"
	"github.com/mxkvch/valentine/internal/logger"
)

func main() {
	cfg := config.LoadCarousel()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	store, err := blobstore.NewMinioStore(cfg.S3)
	if err != nil {
		log.Fatal("failed to init object store", logger.Error(err))
	}

	var cache *carousel.ListingCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("failed to connect redis", logger.Error(err))
		}
		cache = carousel.NewListingCache(client, cfg.IndexCacheTTL, log)
		log.Info("carousel listing cache enabled",
			logger.String("addr", cfg.RedisAddr),
			logger.Duration("ttl", cfg.IndexCacheTTL))
	}

	router := httpserver.NewRouter(log)
	carousel.NewHandler(store, cache, log).Routes(router)

	server := httpserver.New(cfg.ListenAddr, router, log)
	if err := httpserver.Run(server, cfg.ShutdownTimeout); err != nil {
		log.Fatal("carousel service failed", logger.Error(err))
	}
}
