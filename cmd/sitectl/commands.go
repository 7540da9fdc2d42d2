package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	app "github.com/phillip/nonprofit-site-go/app"
	config "github.com/phillip/nonprofit-site-go/config"
	payments "github.com/phillip/nonprofit-site-go/payments"
	seed "github.com/phillip/nonprofit-site-go/seed"
	store "github.com/phillip/nonprofit-site-go/store"
	utils "github.com/phillip/nonprofit-site-go/utils"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Maintenance commands for the nonprofit site backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newSeedCmd(), newReconcileCmd(), newCreateAdminCmd())
	return root
}

func newSeedCmd() *cobra.Command {
	var fixturesPath string
	var yes bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Wipe every collection and load fixture data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("seed deletes all data; rerun with --yes to confirm")
			}

			fixtures, err := seed.Default()
			if fixturesPath != "" {
				fixtures, err = seed.LoadFile(fixturesPath)
			}
			if err != nil {
				return err
			}

			return withBackend(cmd.Context(), func(_ *config.Config, log zerolog.Logger, backend store.Backend) error {
				sum, err := seed.Run(cmd.Context(), backend, fixtures, log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d events, %d opportunities, %d projects, %d messages, %d registrations, %d applications, %d users\n",
					sum.Events, sum.Opportunities, sum.Projects, sum.Messages, sum.Registrations, sum.Applications, sum.Users)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fixturesPath, "fixtures", "", "YAML fixtures file (defaults to the built-in set)")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm wiping the store")
	return cmd
}

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Resume Stripe linkage for projects left pending, partial or skipped",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd.Context(), func(cfg *config.Config, log zerolog.Logger, backend store.Backend) error {
				syncer := app.NewSynchronizer(cfg, backend.Repos().Projects, log)
				report, err := syncer.Reconcile(cmd.Context())
				if err != nil {
					if errors.Is(err, payments.ErrNotConfigured) {
						return fmt.Errorf("STRIPE_SECRET_KEY is not set")
					}
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "examined %d, linked %d, failed %d, deferred %d\n",
					report.Examined, report.Linked, report.Failed, report.Deferred)
				for _, w := range report.Warnings {
					fmt.Fprintln(out, "  warning:", w)
				}
				return nil
			})
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			return withBackend(cmd.Context(), func(_ *config.Config, _ zerolog.Logger, backend store.Backend) error {
				u, err := seed.CreateAdmin(cmd.Context(), backend.Repos().Users, email, name, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email, u.ID.Hex())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (or ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// withBackend loads configuration, opens the store, and closes it after fn.
func withBackend(ctx context.Context, fn func(*config.Config, zerolog.Logger, store.Backend) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StoreDriver == "memory" {
		return fmt.Errorf("sitectl needs a persistent store; STORE_DRIVER is memory")
	}
	log := utils.NewLogger(cfg.AppEnv)

	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	backend, err := app.OpenBackend(openCtx, cfg, log)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = backend.Close(closeCtx)
	}()

	return fn(cfg, log, backend)
}
