package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/server"
)

func newTokenCmd() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Long:  "Signs a token for --subject (a user UUID, generated when omitted) with JWT_SECRET. Expiry and issuer follow JWT_EXPIRATION_HOURS and JWT_ISSUER.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			jwtConfig, err := config.NewJWTConfig()
			if err != nil {
				return fmt.Errorf("failed to create JWT config: %w", err)
			}

			uid := uuid.New()
			if subject != "" {
				uid, err = uuid.Parse(subject)
				if err != nil {
					return fmt.Errorf("invalid subject: %w", err)
				}
			}

			token, err := server.NewJWTService(jwtConfig).GenerateToken(uid)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "user: %s\n", uid) //nolint:errcheck
			fmt.Fprintln(cmd.OutOrStdout(), token)            //nolint:errcheck
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "User UUID to issue the token for")
	return cmd
}
