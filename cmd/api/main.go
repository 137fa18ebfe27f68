package main

import (
	"log"

	gives "github.com/x402x/gives"
	"github.com/x402x/gives/config"
	"github.com/x402x/gives/internal/server"
	"github.com/x402x/gives/logger"
	"github.com/x402x/gives/metrics"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal("cannot load config: ", err)
	}

	zlog := logger.NewZapLogger(cfg.Logger.Level, cfg.Logger.Encoding)

	core := gives.New(cfg,
		gives.WithLogger(zlog),
		gives.WithMetrics(metrics.NewPrometheusRecorder()),
	)

	srv := server.New(core, cfg, zlog)
	zlog.Info("starting gives api", map[string]any{
		"port": cfg.Server.Port,
		"mode": cfg.App.Mode,
	})
	if err := srv.Run(); err != nil {
		log.Fatal("server stopped: ", err)
	}
}
