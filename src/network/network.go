// Package network carries worldview messages over UDP broadcast. Delivery is
// best effort: messages may be lost, repeated or reordered, and the worldview
// merge tolerates all three.
package network

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"elevcoord/lib/network-go/network/bcast"
	"elevcoord/src/worldview"

	"golang.org/x/sync/errgroup"
)

type Options struct {
	Port        int
	Self        int
	Repetitions int
	Interval    time.Duration
	DedupWindow int
}

// Run sends every message received on tx and delivers every message from a
// peer on rx until ctx is cancelled. Socket errors are logged and retried;
// only a failure to open the socket is returned.
func Run(ctx context.Context, opts Options, tx <-chan worldview.Message, rx chan<- worldview.Message) error {
	rawTx := make(chan []byte, 16)
	rawRx := make(chan []byte, 64)

	g, ctx := errgroup.WithContext(ctx)

	goSafe(g, "bcast-tx", func() error {
		return bcast.Transmitter(ctx, opts.Port, rawTx)
	})
	goSafe(g, "bcast-rx", func() error {
		return bcast.Receiver(ctx, opts.Port, rawRx)
	})
	goSafe(g, "msg-buffer-tx", func() error {
		return msgBufferTx(ctx, opts.Self, opts.Repetitions, opts.Interval, tx, rawTx)
	})
	goSafe(g, "msg-buffer-rx", func() error {
		return msgBufferRx(ctx, opts.Self, opts.DedupWindow, rawRx, rx)
	})

	slog.Info("Network started", "port", opts.Port)
	return g.Wait()
}

// goSafe runs fn in g, turning a panic into an error.
func goSafe(g *errgroup.Group, name string, fn func() error) {
	g.Go(func() (err error) {
		defer func() {
			if v := recover(); v != nil {
				slog.Error("Goroutine panicked", "goroutine", name, "panic", v, "stack", string(debug.Stack()))
				err = fmt.Errorf("panic in %s: %v", name, v)
			}
		}()
		return fn()
	})
}
