package main

import (
	"context"
	"log/slog"
	"os"
	"usydrc/cmd/usydrc/commands"
	"usydrc/lib/osutil"
	"usydrc/lib/telemetry"
)

func main() {
	ctx, cancel := osutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "usydrc")
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to setup telemetry", "err", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownErr := tel.Shutdown(context.Background())
	if shutdownErr != nil {
		slog.Warn("failed to shutdown telemetry", "err", shutdownErr)
	}
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
