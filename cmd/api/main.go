// cmd/api/main.go
package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/Slade66/number-generator/internal/api"
	"github.com/Slade66/number-generator/internal/config"
	"github.com/Slade66/number-generator/internal/logging"
	"github.com/Slade66/number-generator/internal/queue"
	"github.com/Slade66/number-generator/internal/status"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "optional config file")
	pflag.Parse()

	v, err := config.NewViper(*configFile)
	if err != nil {
		panic(err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		panic(err)
	}

	rdb, err := queue.Connect(context.Background(), cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("api cannot reach redis")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(
		queue.NewProducer(rdb, cfg.Redis.Stream),
		status.NewManager(rdb),
		log,
		prometheus.DefaultGatherer,
	)

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("api listening")
	if err := server.Router().Run(cfg.HTTP.Addr); err != nil {
		log.Error().Err(err).Msg("api stopped")
		os.Exit(1)
	}
}
