package main

import (
	"github.com/spf13/cobra"

	"github.com/rekrytera/jobad-publisher/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger surface",
	Long:  `Start an HTTP server exposing resolve, validate, publish and taxonomy-refresh triggers.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	port := d.cfg.Port
	if servePort != 0 {
		port = servePort
	}

	srv := server.New(server.Config{Port: port}, d.publisher, d.refresher, d.database, d.log)
	return srv.Start()
}
