// Package platform hides OS differences in process signal handling.
package platform

import (
	"context"
	"os/signal"
)

// NewShutdownContext returns a context canceled when the process is asked
// to stop, or when parent is canceled.
func NewShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
