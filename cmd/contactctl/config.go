package main

import (
	"fmt"
	"os"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	var (
		out         string
		showSecrets bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Resolve defaults, the config file and environment variables and print
the result as YAML. The output can be used as a config file.

Secrets are masked unless --show-secrets is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigFromFile(configFile)
			if err != nil {
				return err
			}
			if !showSecrets {
				redactSecrets(cfg)
			}

			raw, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			if err := os.WriteFile(out, raw, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print secrets in clear")
	return cmd
}

func redactSecrets(cfg *config.Config) {
	mask := func(s *string) {
		if *s != "" {
			*s = logger.MaskSensitiveString(*s, 3, 0)
		}
	}
	mask(&cfg.Server.JwtSecretKey)
	mask(&cfg.Database.Password)
	mask(&cfg.Redis.Password)
	mask(&cfg.Delivery.PrivateKey)
	mask(&cfg.Email.ResendAPIKey)
}
