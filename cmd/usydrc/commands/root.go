package commands

import (
	"context"
	"fmt"
	"os"
	apitelemetry "usydrc/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	dumpHttp   string
)

var rootCmd = &cobra.Command{
	Use:           "usydrc",
	Short:         "usydrc checks SSA for newly released exam results and emails them to you.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		apitelemetry.InitSlog(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file to read (and write during setup).")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.PersistentFlags().StringVar(&dumpHttp, "dump-http", "", "Write every SSA request and response to this directory (needs --verbose).")
}

func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
