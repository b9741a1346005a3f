package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start an HTTP server exposing profile scoring, daily challenges and per-user progress.
The /me routes require JWT_SECRET; without it only the stateless routes are served.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}

			scorer, err := newScorer(cfg)
			if err != nil {
				return err
			}
			backend, history, err := openGateway(ctx, cfg)
			if err != nil {
				return err
			}
			defer backend.Close() //nolint:errcheck

			suggester, cleanup, err := newSuggester(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			var jwtConfig *config.JWTConfig
			if os.Getenv("JWT_SECRET") != "" {
				jwtConfig, err = config.NewJWTConfig()
				if err != nil {
					return fmt.Errorf("failed to create JWT config: %w", err)
				}
			} else {
				log.Printf("JWT_SECRET not set; per-user routes are disabled")
			}

			srv, err := server.New(server.Config{
				Port:      port,
				Gateway:   backend,
				History:   history,
				Scorer:    scorer,
				Suggester: suggester,
				Clock:     root.now(),
				JWT:       jwtConfig,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			log.Printf("Using %s store", cfg.Store)
			return srv.Start()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	return cmd
}
