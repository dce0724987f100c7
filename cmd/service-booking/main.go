// Command service-booking serves the assignment HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"service-cleaning-booking/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := app.NewRunner()
	runner.MustRun(app.MustBuildContainer(ctx))
}
