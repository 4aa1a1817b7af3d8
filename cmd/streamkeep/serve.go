package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/streamkeep/streamkeep/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the streamkeep cache service",
	Long: `Start the cache service: connect to the remote tree store, load the local
snapshot mirror, run the reload scheduler and serve the admin endpoints.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = findConfigFile()
	}

	container := di.NewContainer(configPath)

	cfgSvc, err := di.Invoke[*di.ConfigService](container)
	if err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("failed to load config")
		return err
	}

	logSvc, err := di.Invoke[*di.LoggerService](container)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize logger")
		return err
	}
	log.Logger = *logSvc.Logger
	zerolog.DefaultContextLogger = logSvc.Logger

	// Resolve eagerly so startup failures surface before we report ready.
	if _, err := di.Invoke[*di.TreeStoreService](container); err != nil {
		log.Error().Err(err).Msg("failed to connect tree store")
		return err
	}
	snapSvc := di.MustInvoke[*di.SnapshotService](container)
	schedSvc := di.MustInvoke[*di.SchedulerService](container)
	di.MustInvoke[*di.ManagerService](container)
	di.MustInvoke[*di.WatcherService](container)

	srvSvc, err := di.Invoke[*di.ServerService](container)
	if err != nil {
		log.Error().Err(err).Msg("failed to build admin server")
		return err
	}

	log.Info().
		Str("snapshot", snapSvc.Store.Path()).
		Int("records", snapSvc.Store.Current().RootCount()).
		Bool("auto_reload", schedSvc.Scheduler.Enabled()).
		Msg("streamkeep started")

	// Graceful shutdown on SIGINT/SIGTERM.
	done := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info().Msg("shutting down...")
		if err := container.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
		close(done)
	}()

	if srvSvc.Server == nil {
		// No admin listener configured; run until a signal arrives.
		<-done
		log.Info().Msg("streamkeep stopped")
		return nil
	}

	log.Info().Str("listen", cfgSvc.Config.Admin.Listen).Msg("admin server listening")
	if err := srvSvc.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("admin server error")
		return err
	}

	<-done
	log.Info().Msg("streamkeep stopped")
	return nil
}

// findConfigFile checks the working directory, then the user config dir.
func findConfigFile() string {
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		p := filepath.Join(home, ".config", "streamkeep", defaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return defaultConfigFile
}
