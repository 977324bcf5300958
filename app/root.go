// Package app implements the command line of the clinic CRM backend.
package app

import (
	"github.com/spf13/cobra"
)

var (
	configPath string // directory holding main.toml

	rootCmd = &cobra.Command{
		Use:   "clinic-crm",
		Short: "Clinic CRM is the backend of the clinic management frontend",
		Long: `Clinic CRM serves the certificate and settings API of the clinic
management frontend, its health check and, in production, the frontend bundle.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
