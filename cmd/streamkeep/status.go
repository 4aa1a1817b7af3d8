package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/streamkeep/streamkeep/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check if the streamkeep service is running",
	Long: `Check the health of a running streamkeep service by querying its
/healthz endpoint.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = findConfigFileForStatus()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Admin.Listen == "" {
		return fmt.Errorf("no admin listen address configured in %s", configPath)
	}

	healthURL := fmt.Sprintf("http://%s/healthz", cfg.Admin.Listen)

	client := &http.Client{Timeout: 5 * time.Second}

	//nolint:noctx // Simple health check doesn't need context propagation
	resp, err := client.Get(healthURL)
	if err != nil {
		fmt.Printf("✗ streamkeep is not running (%s)\n", cfg.Admin.Listen)
		return fmt.Errorf("service not reachable: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Logger.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode == http.StatusOK {
		fmt.Printf("✓ streamkeep is running (%s)\n", cfg.Admin.Listen)
		return nil
	}

	fmt.Printf("✗ streamkeep returned unexpected status: %d\n", resp.StatusCode)
	return fmt.Errorf("health check failed with status %d", resp.StatusCode)
}

// findConfigFileForStatus mirrors findConfigFile from serve.go. Duplicated
// to avoid shared state between subcommands.
func findConfigFileForStatus() string {
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
