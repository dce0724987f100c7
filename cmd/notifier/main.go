// Command notifier consumes assignment notifications from Kafka and delivers them.
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

	app.NewWorkerRunner().MustRun(app.MustBuildWorkerContainer(ctx))
}
