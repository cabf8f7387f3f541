package main

import (
	"github.com/mxkvch/valentine/internal/config"
	"github.com/mxkvch/valentine/internal/httpserver"
	"github.com/mxkvch/valentine/internal/logger"
	"github.com/mxkvch/valentine/internal/timer"
)

func main() {
	cfg := config.LoadTimer()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	router := httpserver.NewRouter(log)
	timer.NewHandler(cfg.StartTime, log).Routes(router)

	server := httpserver.New(cfg.ListenAddr, router, log)
	if err := httpserver.Run(server, cfg.ShutdownTimeout); err != nil {
		log.Fatal("timer service failed", logger.Error(err))
	}
}
