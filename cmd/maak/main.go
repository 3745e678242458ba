// Command maak is the terminal front end of the maak accessibility mockup.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rbright/maak/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	code := app.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
