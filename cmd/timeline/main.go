package main

import (
	"github.com/mxkvch/valentine/internal/config"
	"github.com/mxkvch/valentine/internal/httpserver"
	"github.com/mxkvch/valentine/internal/logger"
	"github.com/mxkvch/valentine/internal/timeline"
)

func main() {
	cfg := config.LoadTimeline()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	if cfg.UpstreamsFile != "" {
		upstreams, err := timeline.LoadUpstreams(cfg.UpstreamsFile)
		if err != nil {
			log.Fatal("failed to load upstreams file", logger.Error(err))
		}
		upstreams.ApplyTo(cfg)
		log.Info("upstream routes loaded", logger.String("file", cfg.UpstreamsFile))
	}

	router := httpserver.NewRouter(log)
	timeline.NewHandler(timeline.NewClientConfig(cfg), cfg.StaticDir, log).Routes(router)

	server := httpserver.New(cfg.ListenAddr, router, log)
	if err := httpserver.Run(server, cfg.ShutdownTimeout); err != nil {
		log.Fatal("timeline service failed", logger.Error(err))
	}
}
