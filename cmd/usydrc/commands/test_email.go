package commands

import (
	"fmt"
	"usydrc/lib/keychain"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(testEmailCmd)
}

var testEmailCmd = &cobra.Command{
	Use:   "test-email",
	Short: "Sends a test email with the configured account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		creds, closeCreds, err := keychain.Open(ctx, cfg.Credentials)
		if err != nil {
			return err
		}
		defer closeCreds()

		code, err := sendTestEmail(ctx, cfg, creds)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sent a test email to %s with the code %s\n", cfg.Email.Address, code)
		return nil
	},
}
