// README: Entry point; loads config, wires the rating service, starts the HTTP server and the rule refresher.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rateline/internal/config"
	"rateline/internal/events"
	httptransport "rateline/internal/http"
	"rateline/internal/infra"
	"rateline/internal/logging"
	"rateline/internal/maps"
	"rateline/internal/modules/geo"
	"rateline/internal/modules/rating"
	"rateline/internal/modules/route"
	"rateline/internal/modules/ruletable"
)

func main() {
	if err := run(); err != nil {
		slog.Error("rateline-api stopped", logging.Err(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(os.Stdout, cfg.Telemetry.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.OTLPEnabled {
		tp, err := infra.InitTracer(ctx, "rateline-api")
		if err != nil {
			return err
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	var (
		loader ruletable.Source
		routes route.Registry
	)
	if cfg.Rating.RulesFile != "" {
		loader = ruletable.FileSource{Path: cfg.Rating.RulesFile}
		seed, err := ruletable.LoadFile(cfg.Rating.RulesFile)
		if err != nil {
			return err
		}
		routes = route.NewMemoryRegistry(seed.Routes)
	} else {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer dbPool.Close()
		loader = ruletable.NewStore(dbPool)
		routes = route.NewStore(dbPool)
	}

	rules := ruletable.NewRefresher(loader, cfg.Rating.RulesStrict, log)
	if err := rules.Reload(ctx); err != nil {
		return err
	}

	var provider geo.DistanceProvider
	distance, err := maps.NewDistanceService(cfg.Distance.GoogleMapsKey)
	if err != nil {
		return err
	}
	provider = distance
	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		provider = maps.NewCachedProvider(distance, rdb, cfg.Distance.CacheTTL, log)
	}

	engine := rating.NewEngine(
		geo.NewResolver(provider, cfg.Distance.Timeout),
		route.NewService(routes),
		rating.Config{
			Currency:           cfg.Rating.Currency,
			VolumetricDivisor:  cfg.Rating.VolumetricDivisor,
			PackageThresholdKg: cfg.Rating.PackageThresholdKg,
		},
	)
	ratingSvc := rating.NewService(rules, engine, log)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		publisher = kp
	}
	defer publisher.Close()

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Rating: ratingSvc,
		Events: publisher,
		Log:    log,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Rating.RulesRefresh > 0 {
		go rules.Run(ctx, cfg.Rating.RulesRefresh)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", cfg.HTTP.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
