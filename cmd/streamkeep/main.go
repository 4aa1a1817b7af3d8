// Package main is the entry point for streamkeep.
package main

import (
	"context"
	"os"

	"charm.land/fang/v2"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "config.yaml"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "streamkeep",
	Short: "Two-tier media-result cache service",
	Long: `streamkeep keeps delivered media results reusable: a local read-optimized
snapshot mirrored from a remote tree store answers lookups, while writes go
to the remote and a background scheduler keeps the mirror fresh.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file path (default: ./"+defaultConfigFile+" or ~/.config/streamkeep/"+defaultConfigFile+")")
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}
