package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// dumpCmd prints the full logical -> resolved mapping
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the parsed logical -> resolved mapping",
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, key := range m.Keys() {
		resolved, _ := m.Lookup(key)
		fmt.Fprintf(out, "%s -> %s\n", key, resolved)
	}
	return nil
}
