// Command gitsync keeps a list of git working copies up to date.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/gitsync/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetServicesFactory(buildServices)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
