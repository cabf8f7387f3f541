package main

import (
	"github.com/mxkvch/valentine/internal/blobstore"
	"github.com/mxkvch/valentine/internal/config"
	"github.com/mxkvch/valentine/internal/httpserver"
	"github.com/mxkvch/valentine/internal/logger"
	"github.com/mxkvch/valentine/internal/photostock"
)

func main() {
	cfg := config.LoadPhotostock()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	store, err := blobstore.NewMinioStore(cfg.S3)
	if err != nil {
		log.Fatal("failed to init object store", logger.Error(err))
	}

	router := httpserver.NewRouter(log)
	photostock.NewHandler(store, log).Routes(router)

	server := httpserver.New(cfg.ListenAddr, router, log)
	if err := httpserver.Run(server, cfg.ShutdownTimeout); err != nil {
		log.Fatal("photostock service failed", logger.Error(err))
	}
}
