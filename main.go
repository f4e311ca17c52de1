package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"inventory-catalog/config"
	"inventory-catalog/publish"
	"inventory-catalog/utils"
)

// Exit codes.
const (
	exitOK            = 0
	exitExportFailed  = 1
	exitPublishFailed = 2
)

func main() {
	cfg := config.Load()
	app := newApp(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.root().ExecuteContext(ctx)
	os.Exit(exitCode(app.logger, err))
}

// exitCode reports err and maps it to the process exit status, keeping
// publish failures distinct from export failures.
func exitCode(logger *utils.Logger, err error) int {
	if err == nil {
		return exitOK
	}
	var pubErr *publish.Error
	if errors.As(err, &pubErr) {
		logger.Error("Publish failed: %v", err)
		return exitPublishFailed
	}
	logger.Error("Export failed: %v", err)
	return exitExportFailed
}
