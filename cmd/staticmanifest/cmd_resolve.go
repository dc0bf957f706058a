package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"staticmanifest/internal/resolver"
)

// resolveCmd resolves logical keys against the manifest
var resolveCmd = &cobra.Command{
	Use:   "resolve KEY...",
	Short: "Resolve logical asset paths to their cache-busted paths",
	Long: `Looks each KEY up in the manifest and prints the path clients should
request. Keys without a manifest entry print unchanged, unless --strict
is set, in which case the first miss fails the command.

Example:
  staticmanifest resolve --manifest dist/staticfiles.json css/app.css js/main.js`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}

	r := resolver.New(resolver.NewStore(m), resolver.Options{Strict: cfg.Resolver.Strict}, logger)
	for _, key := range args {
		resolved, err := r.Resolve(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", key, resolved)
	}
	return nil
}
