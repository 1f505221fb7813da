package commands

import (
	"fmt"
	"log/slog"
	"usydrc/internal/chrono"
	apitelemetry "usydrc/internal/telemetry"
	"usydrc/lib/keychain"
	"usydrc/lib/scrapers/ssa"
	"usydrc/services/checker"

	"github.com/spf13/cobra"
)

var (
	dryRun  bool
	noEmail bool
)

func init() {
	checkCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check without writing the snapshot or sending email.")
	checkCmd.Flags().BoolVar(&noEmail, "no-email", false, "Do not email new results.")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [--dry-run] [--no-email]",
	Short: "Checks SSA once for new results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		creds, closeCreds, err := keychain.Open(ctx, cfg.Credentials)
		if err != nil {
			return fmt.Errorf("open credentials: %w", err)
		}
		defer closeCreds()

		password, err := creds.Get(ctx, keychain.UniPassword)
		if err != nil {
			return err
		}
		client, err := newSsaClient(cfg)
		if err != nil {
			return err
		}
		err = resolveDegree(ctx, client, &cfg, password)
		if err != nil {
			return fmt.Errorf("authentication failure, run `usydrc setup` again: %w", err)
		}

		parser, err := newParser(cfg)
		if err != nil {
			return err
		}

		options := checker.Options{
			DryRun: dryRun,
			Clock:  chrono.NewStandardTime(),
		}
		if cfg.Email.Enabled && !noEmail {
			m, err := newMailer(ctx, cfg, creds)
			if err != nil {
				return err
			}
			options.Notifier = m
		}

		c := checker.NewChecker(
			ssa.Session{
				Client:   client,
				Username: cfg.Username,
				Password: password,
				DegreeId: cfg.DegreeId,
			},
			newStore(cfg),
			parser,
			apitelemetry.SlogAPI{},
			options,
		)

		slog.Info("checking for results", "period", c.Period().String())
		report, err := c.Run(ctx)
		if err != nil {
			return err
		}
		slog.Info(report.Message(), "status", report.Status.String(), "emailed", report.Notified)
		for _, r := range report.New {
			slog.Info("new result", "result", r.String())
		}
		return nil
	},
}
