// Package main provides the radio player entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19radio/internal/api/console"
	"github.com/osa030/19radio/internal/api/httpapi"
	"github.com/osa030/19radio/internal/app/notification"
	"github.com/osa030/19radio/internal/app/playback"
	"github.com/osa030/19radio/internal/app/radio"
	"github.com/osa030/19radio/internal/infra/audio"
	"github.com/osa030/19radio/internal/infra/catalog"
	"github.com/osa030/19radio/internal/infra/config"
	"github.com/osa030/19radio/internal/infra/logger"
	"github.com/osa030/19radio/internal/infra/store"
)

var (
	app        = kingpin.New("19radio", "19radio internet radio player")
	configPath = app.Flag("config", "Path to config file").Default("config/radio.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	runCmd   = app.Command("run", "Start the player (default)").Default()
	headless = runCmd.Flag("headless", "Do not read commands from stdin").Bool()

	// stations command
	stationsCmd = app.Command("stations", "Fetch the station list, print it and exit")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{Output: "stderr", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	logCloser, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logCloser.Close()

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	switch command {
	case stationsCmd.FullCommand():
		err = listStations(cfg)
	default:
		err = run(cfg)
	}
	if err != nil {
		zlog.Error().Msgf("Error: %v", err)
		logCloser.Close()
		os.Exit(1)
	}
}

// run executes the player. Using a separate function ensures deferred
// cleanup runs even when returning with an error.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := newCatalogClient(ctx, cfg)
	if err != nil {
		return err
	}

	sink, closeSink, err := newSink(cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	st, err := store.Open(cfg.Persistence.Driver, cfg.Persistence.Path)
	if err != nil {
		return errors.Wrap(err, "failed to open state store")
	}
	defer st.Close()

	opts := playback.Options{Volume: cfg.Playback.Volume}
	if saved, found, err := st.Load(ctx); err != nil {
		zlog.Warn().Msgf("Failed to load saved state, starting fresh: %v", err)
	} else if found {
		zlog.Info().Msgf("Restoring saved state: station=%q volume=%d", saved.StationName, saved.Volume)
		volume := saved.Volume
		opts.Volume = &volume
		if saved.HasSelection() {
			opts.Restore = &playback.Restore{Index: saved.Selected, Name: saved.StationName}
		}
	}

	player := playback.NewController(sink, opts)
	radioApp := radio.New(player, radio.NewLoader(client), cfg.DefaultCatalog())

	notifier := notification.NewManager()
	defer notifier.Close()

	requests := make(chan radio.Request)
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- radioApp.Run(ctx, requests, notifier, cfg.TickInterval())
	}()

	var server *http.Server
	serverErrCh := make(chan error, 1)
	if cfg.Server.Addr != "" {
		server = &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           httpapi.NewServer(requests, notifier, cfg.Server.Token).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			zlog.Info().Msgf("Starting remote control server: addr=%s", cfg.Server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrCh <- err
			}
		}()
	}

	consoleDone := make(chan error, 1)
	if !*headless {
		go func() {
			consoleDone <- console.New(os.Stdin, os.Stdout, requests).Run(ctx)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-consoleDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			runErr = errors.Wrap(err, "console error")
		}
	case err := <-serverErrCh:
		runErr = errors.Wrap(err, "server error")
	}
	stop()

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Error().Msgf("Failed to shutdown server: %v", err)
		}
	}

	if err := <-loopDone; err != nil {
		zlog.Error().Msgf("Radio loop error: %v", err)
	}

	// The loop has returned, so the controller has no other caller.
	player.Stop()
	if err := saveState(st, player.Status()); err != nil {
		zlog.Warn().Msgf("Failed to save state: %v", err)
	}

	zlog.Info().Msg("Player stopped")
	return runErr
}

// listStations fetches the station list once and prints it.
func listStations(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Catalog.Timeout+time.Second)
	defer cancel()

	client, err := newCatalogClient(ctx, cfg)
	if err != nil {
		return err
	}
	loader := radio.NewLoader(client)
	loader.Start(ctx)
	result, err := loader.Wait(ctx)
	if err != nil {
		return errors.Wrap(err, "station list fetch interrupted")
	}
	if result.Err != nil {
		return result.Err
	}
	stations := result.Catalog

	fmt.Printf("Stations from %s (%d):\n", client.URL(), stations.Len())
	for i, s := range stations {
		fmt.Printf("  %2d  %-30s %s\n", i, s.Name, s.StreamURL)
	}
	return nil
}

func newCatalogClient(ctx context.Context, cfg *config.Config) (*catalog.Client, error) {
	ccfg := catalog.Config{
		URL:     cfg.Catalog.URL,
		Timeout: cfg.Catalog.Timeout,
	}
	if cfg.HasAuth() {
		ccfg.Auth = &catalog.AuthConfig{
			TokenURL:     cfg.Catalog.Auth.TokenURL,
			ClientID:     cfg.Catalog.Auth.ClientID,
			ClientSecret: cfg.Catalog.Auth.ClientSecret,
			Scopes:       cfg.Catalog.Auth.Scopes,
		}
	}
	client, err := catalog.New(ctx, ccfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create catalog client")
	}
	return client, nil
}

func newSink(cfg *config.Config) (playback.Sink, func(), error) {
	switch cfg.Player.Type {
	case "exec":
		sink, err := audio.NewExecSink(audio.ExecConfig{
			Command:   cfg.Player.Command,
			Args:      cfg.Player.Args,
			VolumeArg: cfg.Player.VolumeArg,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create player")
		}
		return sink, func() { _ = sink.Close() }, nil
	default:
		return audio.NewLogSink(), func() {}, nil
	}
}

func saveState(st store.Store, status playback.Status) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	state := store.State{
		Selected: status.Selected,
		Volume:   status.Volume,
		SavedAt:  time.Now(),
	}
	if status.Station != nil {
		state.StationName = status.Station.Name
	}
	return st.Save(ctx, state)
}
