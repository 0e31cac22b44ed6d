// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leadengine",
	Short: "LeadEngine is a lead-management backend for investor submissions",
	Long: `LeadEngine is a lead-management backend that collects public
investor-interest submissions and gives staff a role-scoped API for
triaging them into leads, with a full audit trail.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
