// Package main implements the tempo CLI client.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:           "tempo",
	Short:         "Tempo - personal productivity client",
	SilenceErrors: false,
	SilenceUsage:  true,
}

var serverURL string

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "tempo server URL (default http://127.0.0.1:8377, or $TEMPO_SERVER)")
}
