//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext cancels the render on Ctrl-C. Windows has no SIGTERM.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
