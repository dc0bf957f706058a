package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"staticmanifest/internal/config"
	"staticmanifest/internal/logging"
	"staticmanifest/internal/manifest"
)

var (
	// Global flags
	cfgPath        string
	manifestPath   string
	manifestFormat string
	strict         bool
	verbose        bool

	// Shared state built by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "staticmanifest",
	Short: "Resolve static-asset paths through a build manifest",
	Long: `staticmanifest maps logical static-asset paths to the cache-busted,
content-fingerprinted paths an asset pipeline wrote into its manifest
(Django staticfiles.json or Vite manifest.json).

A key with no manifest entry either falls back to the unhashed original
path (the default) or fails hard with --strict, for pipelines that treat
an unreferenced asset as a build error.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		// Flags beat config file and environment.
		if cmd.Flags().Changed("manifest") {
			cfg.Manifest.Path = manifestPath
		}
		if cmd.Flags().Changed("format") {
			cfg.Manifest.Format = manifestFormat
		}
		if cmd.Flags().Changed("strict") {
			cfg.Resolver.Strict = strict
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.JSON, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadManifest validates config and loads the configured manifest file.
func loadManifest() (*manifest.Manifest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := manifest.Load(cfg.Manifest.Path, cfg.Format())
	if err != nil {
		return nil, err
	}
	logger.Debug("manifest loaded",
		zap.String("path", cfg.Manifest.Path),
		zap.String("format", string(m.Source().Format)),
		zap.String("snapshot", m.ID()),
		zap.Int("entries", m.Len()))
	return m, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default "+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "manifest file written by the asset pipeline")
	rootCmd.PersistentFlags().StringVar(&manifestFormat, "format", "auto", "manifest format: auto, staticfiles or vite")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "fail on keys with no manifest entry instead of falling back")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
