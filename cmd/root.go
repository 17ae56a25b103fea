package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command of the blog server CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog-server",
		Short: "Blog platform backend",
		Long: `Blog platform backend: accounts, sessions, password reset by email,
profile photos and the static blog feed.`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", buildVersion, buildDate, buildCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewMailerCmd())

	return cmd
}
