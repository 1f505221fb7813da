package commands

import (
	"context"
	"errors"
	"fmt"
	"usydrc/lib/keychain"
	"usydrc/lib/mailer"
	"usydrc/lib/scrapers/ssa"

	"github.com/spf13/cobra"
)

// how many times a bad uni-key login is retried before giving up
const setupAttempts = 3

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Prompts for your uni and email login details and saves them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(configPath)
		if err != nil {
			cfg = defaultConfig
		}
		return setup(ctx, newTerminalPrompter(), cfg)
	},
}

func setup(ctx context.Context, p prompter, cfg Config) error {
	client, err := newSsaClient(cfg)
	if err != nil {
		return err
	}

	p.Heading("Sydney Uni login details")
	var password string
	for attempt := 1; ; attempt++ {
		cfg.Username, err = p.Line("Uni-key: ")
		if err != nil {
			return err
		}
		password, err = p.Password("Password: ")
		if err != nil {
			return err
		}

		fmt.Fprintln(p.out, "Validating... ")
		cfg.DegreeId, err = client.DegreeId(ctx, cfg.Username, password)
		if err == nil {
			fmt.Fprintln(p.out, "Done!")
			break
		}
		if !errors.Is(err, ssa.ErrLoginFailed) || attempt >= setupAttempts {
			return err
		}
		fmt.Fprintln(p.out, "\nError logging in... Please try again.")
	}

	p.Heading("Email login details")
	cfg.Email.Address, err = p.Line("Email Address: ")
	if err != nil {
		return err
	}
	emailPassword, err := p.Password("Password: ")
	if err != nil {
		return err
	}

	server, ok := mailer.GuessServer(cfg.Email.Address)
	if !ok {
		fmt.Fprintln(p.out, "Please enter the address & port of your SMTP server...")
		server, err = p.Line("Server [address:port]: ")
		if err != nil {
			return err
		}
	}
	cfg.Email.Server = server
	cfg.Email.Enabled = cfg.Email.Address != ""

	creds, closeCreds, err := keychain.Open(ctx, cfg.Credentials)
	if err != nil {
		return err
	}
	defer closeCreds()
	err = creds.Set(ctx, keychain.UniPassword, password)
	if err != nil {
		return err
	}
	err = creds.Set(ctx, keychain.EmailPassword, emailPassword)
	if err != nil {
		return err
	}

	err = writeConfig(configPath, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Saved to %s\n", configPath)

	if !cfg.Email.Enabled {
		return nil
	}
	test, err := p.Confirm("Send a test email?")
	if err != nil || !test {
		return err
	}
	fmt.Fprintln(p.out, "Emailing...")
	code, err := sendTestEmail(ctx, cfg, creds)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Done! Check that it worked, the code is %s\n", code)
	return nil
}

func sendTestEmail(ctx context.Context, cfg Config, creds keychain.CredentialStore) (string, error) {
	m, err := newMailer(ctx, cfg, creds)
	if err != nil {
		return "", err
	}
	return m.SendTest(ctx)
}
