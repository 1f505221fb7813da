package commands

import (
	"context"
	"fmt"
	"log/slog"
	apitelemetry "usydrc/internal/telemetry"
	"usydrc/lib/keychain"
	"usydrc/lib/mailer"
	"usydrc/lib/restyutil"
	"usydrc/lib/results"
	"usydrc/lib/scrapers/ssa"
	"usydrc/lib/snapshot"
)

func newSsaClient(cfg Config) (*ssa.Client, error) {
	opts := ssa.ClientOptions{
		LoginUrl:         cfg.Ssa.LoginUrl,
		CourseSelectUrl:  cfg.Ssa.CourseSelectUrl,
		ResultsUrl:       cfg.Ssa.ResultsUrl,
		BypassCloudflare: cfg.Ssa.BypassCloudflare,
	}
	if dumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(dumpHttp)
		if err != nil {
			return nil, err
		}
		opts.Dumps = output
	}
	return ssa.NewClient(opts)
}

func newMailer(ctx context.Context, cfg Config, creds keychain.CredentialStore) (mailer.Mailer, error) {
	server := cfg.Email.Server
	if server == "" {
		guessed, ok := mailer.GuessServer(cfg.Email.Address)
		if !ok {
			return mailer.Mailer{}, fmt.Errorf("no smtp server configured for %s", cfg.Email.Address)
		}
		server = guessed
	}
	password, err := creds.Get(ctx, keychain.EmailPassword)
	if err != nil {
		return mailer.Mailer{}, err
	}
	return mailer.NewMailer(mailer.Options{
		Server:   server,
		Address:  cfg.Email.Address,
		Password: password,
	}), nil
}

func newParser(cfg Config) (results.Parser, error) {
	locator, err := results.LocatorByName(cfg.Locator)
	if err != nil {
		return results.Parser{}, err
	}
	return results.NewParser(locator, apitelemetry.SlogAPI{}), nil
}

func newStore(cfg Config) snapshot.Store {
	return snapshot.NewStore(cfg.SnapshotFile, apitelemetry.SlogAPI{})
}

// resolveDegree fills in a missing degree id and remembers it in the config.
func resolveDegree(ctx context.Context, client *ssa.Client, cfg *Config, password string) error {
	if cfg.DegreeId != 0 {
		return nil
	}
	slog.Info("working out what degree you're in...")
	id, err := client.DegreeId(ctx, cfg.Username, password)
	if err != nil {
		return err
	}
	cfg.DegreeId = id
	return saveDegreeId(configPath, id)
}
