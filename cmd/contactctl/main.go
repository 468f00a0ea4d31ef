// Command contactctl exercises the contact form and portfolio catalog from
// the command line and issues operator tokens for the admin routes.
package main

import (
	"fmt"
	"os"

	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/spf13/cobra"
)

var configFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "contactctl",
		Short:         "Portfolio contact form tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "YAML config file")

	root.AddCommand(
		newValidateCmd(),
		newSendCmd(),
		newProjectsCmd(),
		newTokenCmd(),
		newConfigCmd(),
	)
	return root
}

func main() {
	logger.InitLogger()
	defer logger.Close()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
