package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mxkvch/valentine/internal/config"
	"github.com/mxkvch/valentine/internal/httpserver"
	"github.com/mxkvch/valentine/internal/logger"
	"github.com/mxkvch/valentine/internal/moments"
)

func main() {
	cfg := config.LoadMoments()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	cancelConnect()
	if err != nil {
		log.Fatal("failed to connect mongo", logger.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect failed", logger.Error(err))
		}
	}()

	repo := moments.NewRepository(
		mongoClient.Database(cfg.MongoDBName).Collection("moments"))

	// Indexes and the legacy-images migration run before the listener opens:
	// a dirty store must never serve requests.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelStartup()
	if err := repo.EnsureIndexes(startupCtx); err != nil {
		log.Fatal("failed to ensure mongo indexes", logger.Error(err))
	}
	if _, err := moments.NewMigrator(repo, log).Run(startupCtx); err != nil {
		log.Fatal("startup migration failed", logger.Error(err))
	}

	router := httpserver.NewRouter(log)
	moments.NewHandler(repo, log, cfg).Routes(router)

	server := httpserver.New(cfg.ListenAddr, router, log)
	if err := httpserver.Run(server, cfg.ShutdownTimeout); err != nil {
		log.Fatal("moments service failed", logger.Error(err))
	}
}
