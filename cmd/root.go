package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tkvdb/tkv/cmd/kv"
	"github.com/tkvdb/tkv/cmd/serve"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "tkv",
		Short: "SQLite-backed key-value store",
		Long: fmt.Sprintf(`tkv (v%s)

A key-value store backed by a single SQLite table, with a raw string
view and a JSON view over the same data. Works against an ephemeral
in-memory database or a file on disk.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tkv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tkv v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
