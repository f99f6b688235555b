// Package main provides the entry point for the job-ad publication service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "publisher",
	Short: "Job-ad publication service",
	Long:  "Resolves job ads against the JobTech taxonomy, validates them against the Platsbanken contract and publishes them to the exchange.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
