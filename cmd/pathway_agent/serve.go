package main

import (
	"fmt"

	"github.com/jonathan/career-pathway/internal/server"
	"github.com/jonathan/career-pathway/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes the career assessment, pathway, suggestion, exam, program and cost endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.connect(cmd.Context()); err != nil {
				return err
			}

			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}

			srv, err := server.New(server.Config{
				Port:           a.cfg.Port,
				AllowedOrigins: a.cfg.AllowedOrigins,
				Advisor:        a.advisor(),
				Resolver:       a.resolver,
				Estimator:      a.estimator,
				RateLimit:      ratelimit.LoadConfig(),
				Logger:         a.logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			defer srv.Close()

			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides PORT)")
	return cmd
}
