// Package main is the CipherHack command-line client. It talks to a
// running server's JSON API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

var (
	version   string
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
