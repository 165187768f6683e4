// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "go-safeq-admin",
	Short: "GoSafeQ-Admin is a web-based management console for SafeQ print servers",
	Long: `GoSafeQ-Admin is a web-based management console for SafeQ print servers
that provides department-scoped access to users, groups, print documents and
usage reports.`,
	Args: cobra.OnlyValidArgs,
}

var cfg config.Config

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
