package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/NomadCrew/portfolio-backend/internal/auth"
	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/NomadCrew/portfolio-backend/models/portfolio"
	"github.com/NomadCrew/portfolio-backend/services"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <field> <value>",
		Short: "Validate one contact form field",
		Long: `Validate a single value the way the contact form does on blur.

Fields: name, email, subject, message`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := contact.ParseField(args[0])
			if err != nil {
				return err
			}
			if msg := contact.Validate(field, args[1]); msg != "" {
				return fmt.Errorf("%s: %s", field, msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", field)
			return nil
		},
	}
}

func newSendCmd() *cobra.Command {
	var data contact.FormData
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a contact message through the configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigFromFile(configFile)
			if err != nil {
				return err
			}
			deliverer, identity, err := services.NewDeliverer(cfg, nil)
			if err != nil {
				return err
			}
			svc := services.NewContactService(deliverer, identity, contact.DefaultMessages(cfg.Contact.OwnerEmail), nil)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			state, err := svc.SubmitOnce(ctx, data)
			out := cmd.OutOrStdout()
			for _, f := range contact.Fields {
				if msg := state.Errors.Get(f); msg != "" {
					fmt.Fprintf(out, "%s: %s\n", f, msg)
				}
			}
			if state.Status.Message != "" {
				fmt.Fprintln(out, state.Status.Message)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&data.Name, "name", "", "sender name")
	flags.StringVar(&data.Email, "email", "", "sender email")
	flags.StringVar(&data.Subject, "subject", "", "message subject")
	flags.StringVar(&data.Message, "message", "", "message body")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "delivery timeout")
	return cmd
}

func newProjectsCmd() *cobra.Command {
	var (
		catalogPath string
		category    string
		visible     int
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List portfolio projects as the gallery shows them",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				catalog *portfolio.Catalog
				err     error
			)
			if catalogPath == "" {
				catalog, err = portfolio.Default()
			} else {
				catalog, err = portfolio.Load(catalogPath)
			}
			if err != nil {
				return err
			}

			page := portfolio.RestoreGallery(catalog, category, visible).Page()
			out := cmd.OutOrStdout()
			for _, p := range page.Projects {
				fmt.Fprintf(out, "%2d  %-8s %s [%s]\n", p.ID, p.Category, p.Title, strings.Join(p.Technologies, ", "))
			}
			fmt.Fprintf(out, "showing %d of %d (%s)", len(page.Projects), page.Total, page.Filter)
			if page.HasMore {
				fmt.Fprintf(out, ", %d more", page.Remaining)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&catalogPath, "catalog", "", "catalog YAML file (embedded catalog when empty)")
	flags.StringVar(&category, "category", portfolio.AllCategory, "category filter")
	flags.IntVar(&visible, "visible", portfolio.PageSize, "number of projects to show")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		secret  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the admin routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.LoadConfigFromFile(configFile)
				if err != nil {
					return err
				}
				secret = cfg.Server.JwtSecretKey
			}
			if secret == "" {
				return fmt.Errorf("no signing secret: pass --secret or set JWT_SECRET_KEY")
			}

			token, err := auth.GenerateOperatorToken(subject, secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&subject, "subject", "operator", "token subject")
	flags.StringVar(&secret, "secret", "", "signing secret (JWT_SECRET_KEY from config when empty)")
	flags.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
