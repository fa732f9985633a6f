package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/skillpath-api/internal/service/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for the API",
		Long:  "Sign a bearer token with the configured JWT secret. Useful for local development when auth is enabled.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := cmd.Flags().GetString("subject")
			if err != nil {
				return err
			}
			if subject == "" {
				return errors.New("--subject is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}

			token, expiresAt, err := jwtService.GenerateToken(cmd.Context(), subject)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().String("subject", "", "subject (sub claim) to embed in the token")
	return cmd
}
