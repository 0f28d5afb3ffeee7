package network

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"elevcoord/src/worldview"

	"github.com/google/uuid"
)

// msgBufferTx encodes every outgoing message
//   - tags each message with a fresh id
//   - sends a burst of repetitions at a fixed interval
func msgBufferTx(ctx context.Context, self, repetitions int, interval time.Duration,
	msgTxCh <-chan worldview.Message, rawTxCh chan<- []byte,
) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-msgTxCh:
			data, err := Encode(uuid.New(), self, msg)
			if err != nil {
				slog.Error("Dropping outgoing message", "type", msg.MsgType(), "error", err)
				continue
			}
			for i := range repetitions {
				if i > 0 && !sleep(ctx, interval) {
					return nil
				}
				select {
				case rawTxCh <- data:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

// msgBufferRx decodes incoming datagrams
//   - drops malformed datagrams and own messages
//   - uses a circular buffer of recent ids to drop repetitions
func msgBufferRx(ctx context.Context, self, window int,
	rawRxCh <-chan []byte, msgRxCh chan<- worldview.Message,
) error {
	d := newDeduper(window)

	for {
		select {
		case <-ctx.Done():
			return nil
		case data := <-rawRxCh:
			env, msg, err := Decode(data)
			if err != nil {
				if errors.Is(err, ErrMalformedMessage) {
					slog.Warn("Dropping malformed message", "error", err)
				}
				continue
			}
			if env.SenderID == self {
				continue
			}
			if !d.firstSeen(env.ID) {
				continue
			}
			select {
			case msgRxCh <- msg:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

type deduper struct {
	seen   map[uuid.UUID]bool
	recent []uuid.UUID
	next   int
}

func newDeduper(window int) *deduper {
	return &deduper{
		seen:   make(map[uuid.UUID]bool, window),
		recent: make([]uuid.UUID, max(window, 1)),
	}
}

// firstSeen records id and reports whether it was not among the recent ids.
func (d *deduper) firstSeen(id uuid.UUID) bool {
	if d.seen[id] {
		return false
	}
	d.seen[id] = true

	// Delete old message from seen messages
	if old := d.recent[d.next]; old != uuid.Nil {
		delete(d.seen, old)
	}
	d.recent[d.next] = id
	d.next = (d.next + 1) % len(d.recent)
	return true
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
