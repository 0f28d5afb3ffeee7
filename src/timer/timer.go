package timer

import (
	"context"
	"log/slog"
	"time"
)

type TimerAction int

const (
	Start TimerAction = iota
	Stop
)

// Timer runs a restartable one-shot timer until ctx is cancelled. Start
// (re)arms it for duration, Stop disarms it, and every expiry sends one value on
// timeout. The door timer and the motor watchdog are both instances of it.
func Timer(ctx context.Context, name string, duration time.Duration, timeout chan<- struct{}, action <-chan TimerAction) {
	t := time.NewTimer(duration)
	t.Stop()
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case a := <-action:
			apply(t, duration, a)
		case <-t.C:
			slog.Debug("Timer timed out", "timer", name)
			// An action arriving before the expiry is consumed supersedes it.
			select {
			case timeout <- struct{}{}:
			case a := <-action:
				slog.Debug("Dropping expiry superseded by action", "timer", name)
				apply(t, duration, a)
			case <-ctx.Done():
				return
			}
		}
	}
}

func apply(t *time.Timer, d time.Duration, a TimerAction) {
	switch a {
	case Start:
		resetTimer(t, d)
	case Stop:
		stopTimer(t)
	}
}

// Stops the timer and resets it.
func resetTimer(t *time.Timer, d time.Duration) {
	stopTimer(t)
	t.Reset(d)
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
