package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "users-api"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           serviceName,
	Short:         "User management REST service",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
