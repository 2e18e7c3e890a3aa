package main

import (
	"fmt"

	"github.com/Abraxas-365/intake/pkg/config"
	"github.com/Abraxas-365/intake/pkg/iam/auth"
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/spf13/cobra"
)

// tokenCmd issues access tokens signed with the server's JWT settings, for
// local development and smoke tests.
func tokenCmd() *cobra.Command {
	var (
		userID   string
		tenantID string
		email    string
		scopes   []string
	)

	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Issue a development access token",
		Example: "  intakectl token --tenant acme --scope applicants:read --scope applicants:write",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnv(cmd.Context()); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, err := auth.NewJWTServiceFromConfig(cfg.Auth.JWT).GenerateAccessToken(
				kernel.UserID(userID),
				kernel.TenantID(tenantID),
				map[string]any{"email": email, "scopes": scopes},
			)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "dev-user", "user ID (sub claim)")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant ID")
	cmd.Flags().StringVar(&email, "email", "dev@example.com", "email claim")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeAll}, "granted scopes")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
