package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"coastersim/internal/api"
	"coastersim/internal/config"
	"coastersim/internal/ride"
	"coastersim/internal/sim"
	"coastersim/internal/smooth"
)

var (
	configDir = flag.String("config", ".", "Directory containing coastersim.cfg.json")
)

func main() {
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := config.Load(*configDir); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if lvl, err := zerolog.ParseLevel(config.GetString("logLevel")); err == nil {
		log = log.Level(lvl)
	}

	engine := sim.New(sim.Config{
		TickHz: config.GetFloat64("sim.tickHz"),
		Ride: ride.Config{
			SpeedScale:     config.GetFloat64("ride.speedScale"),
			ChainLift:      config.GetBool("ride.chainLift"),
			PositionFilter: filterFromConfig(),
			LookFilter:     filterFromConfig(),
		},
		Logger: log.With().Str("component", "sim").Logger(),
	})

	server := api.NewServer(engine, log.With().Str("component", "api").Logger())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.GetInt("listen.port")),
		Handler: server.Handler(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := engine.Run(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("simulation error")
		}
	}()

	go func() {
		log.Info().Int("port", config.GetInt("listen.port")).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	cancel()

	log.Info().Msg("shutdown complete")
}

// filterFromConfig builds a pose filter from the ride.smoothing keys.
// Each call returns a fresh filter so position and look-at never share
// state.
func filterFromConfig() smooth.Filter {
	switch config.GetString("ride.smoothing") {
	case "exponential":
		return smooth.Exponential{Factor: config.GetFloat64("ride.smoothingFactor")}
	case "snap":
		return smooth.Snap
	default:
		return smooth.TimeScaled{Rate: config.GetFloat64("ride.smoothingRate")}
	}
}
