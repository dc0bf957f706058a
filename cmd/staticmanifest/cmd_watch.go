package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"staticmanifest/internal/manifest"
	"staticmanifest/internal/resolver"
	"staticmanifest/internal/watcher"
)

// watchCmd follows the manifest file and logs every snapshot swap
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the manifest and hot-reload it on change",
	Long: `Watches the manifest file and atomically swaps in each new snapshot
as the asset pipeline rewrites it, logging every swap. A rewrite that
fails to parse is logged and skipped; the previous snapshot stays live.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	store := resolver.NewStore(nil)
	if m, err := manifest.Load(cfg.Manifest.Path, cfg.Format()); err != nil {
		// Tolerate a missing or broken manifest at startup; the first good
		// write will populate the store.
		logger.Warn("initial manifest load failed, starting empty",
			zap.String("path", cfg.Manifest.Path),
			zap.Error(err))
	} else {
		store.Swap(m)
		logger.Info("manifest loaded",
			zap.String("path", cfg.Manifest.Path),
			zap.String("snapshot", m.ID()),
			zap.Int("entries", m.Len()))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(cfg.Manifest.Path, cfg.Format(), store, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	w.Stop()

	stats := w.GetStats()
	logger.Info("watcher stopped",
		zap.Int("events", stats.EventsSeen),
		zap.Int("reloads", stats.Reloads),
		zap.Int("reload_errors", stats.ReloadErrors))
	return nil
}
