// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/Slade66/number-generator/internal/config"
	"github.com/Slade66/number-generator/internal/logging"
	"github.com/Slade66/number-generator/internal/metrics"
	"github.com/Slade66/number-generator/internal/queue"
	"github.com/Slade66/number-generator/internal/status"
	"github.com/Slade66/number-generator/internal/uploader"
	"github.com/Slade66/number-generator/internal/worker"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := queue.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("worker cannot reach redis")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// reports are kept in redis anyway; OBS is an optional archive
	var up worker.Uploader
	if cfg.OBS.Enabled() {
		obsUploader, err := uploader.NewObsUploader(cfg.OBS.Endpoint, cfg.OBS.AK, cfg.OBS.SK, cfg.OBS.Bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot create OBS uploader")
		}
		defer obsUploader.Close()
		up = obsUploader
		log.Info().Str("bucket", cfg.OBS.Bucket).Msg("uploading reports to OBS")
	} else {
		log.Warn().Msg("OBS not configured, reports are only stored in redis")
	}

	consumerName, err := os.Hostname()
	if err != nil {
		consumerName = fmt.Sprintf("worker-%d", time.Now().Unix())
		log.Warn().Err(err).Str("consumer", consumerName).Msg("no hostname, using generated consumer name")
	}
	consumer := queue.NewConsumer(rdb, cfg.Redis.Stream, cfg.Redis.Group, consumerName)
	created, err := consumer.EnsureGroup(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create consumer group")
	}
	log.Info().Bool("created", created).Str("group", cfg.Redis.Group).Str("stream", cfg.Redis.Stream).Msg("consumer group ready")

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	metricsServer := &http.Server{Addr: cfg.HTTP.MetricsAddr, Handler: promhttp.Handler()}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	defer metricsServer.Close()

	w := worker.New(consumer, status.NewManager(rdb), up, collector, log)
	if err := w.Run(ctx); err != nil && !worker.IsCancelled(err) {
		log.Error().Err(err).Msg("worker stopped")
		os.Exit(1)
	}
	log.Info().Msg("worker shut down")
}
