package main

import (
	"os"

	"gpurouter/cmd/gpurouter/app"
	"gpurouter/pkg/signals"
)

func main() {
	ctx := signals.SetupSignalHandler()
	if err := app.NewGPURouterCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
