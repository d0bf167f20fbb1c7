package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "travel-advisor",
	Short: "Travel advisor backend services",
	Long: `travel-advisor runs the spot discovery, travel planning and user account
services of the travel advisor backend, each on its own port.

Configuration is read from the environment and an optional .env file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("travel-advisor version %s\nCommit: %s\n", Version, Commit))

	serveCmd.Flags().StringSlice("only", nil, "run only the named services (spots, plans, users)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cleanupCmd)
}
