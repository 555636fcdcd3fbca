package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/internmatch/internal/server"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token",
	Long:  "Token signs a bearer token with JWT_SECRET for clients of a server that has authentication enabled.",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "", "client the token is issued to")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.JWT.Enabled() {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	token, err := server.NewJWTService(cfg.JWT).GenerateToken(tokenSubject)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
