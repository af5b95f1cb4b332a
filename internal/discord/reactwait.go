package discord

import (
	"context"
	"sync"
	"time"
)

// waitKey identifies one acknowledgement wait: a specific emoji by a
// specific user on a specific message.
type waitKey struct {
	MessageID string
	Emoji     string
	UserID    string
}

// reactionWaiters is a registry of pending reaction waits, fed by the
// gateway's reaction-add events. Each wait is a cancellable select on the
// delivery channel, a timer, and the context; exactly one outcome is acted
// on and the waiter is always removed, so reported errors never leak a
// wait forever.
type reactionWaiters struct {
	mu      sync.Mutex
	waiting map[waitKey]chan struct{}
}

func newReactionWaiters() *reactionWaiters {
	return &reactionWaiters{waiting: make(map[waitKey]chan struct{})}
}

// deliver signals the waiter matching a reaction event, if any. Reactions
// by other users or with other emojis fall through silently.
func (w *reactionWaiters) deliver(messageID, emoji, userID string) {
	key := waitKey{MessageID: messageID, Emoji: emoji, UserID: userID}

	w.mu.Lock()
	ch, ok := w.waiting[key]
	w.mu.Unlock()

	if ok {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// await blocks until the matching reaction arrives, the timeout elapses,
// or the context is cancelled. It reports whether the reaction arrived.
func (w *reactionWaiters) await(ctx context.Context, key waitKey, timeout time.Duration) bool {
	ch := make(chan struct{}, 1)

	w.mu.Lock()
	w.waiting[key] = ch
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.waiting, key)
		w.mu.Unlock()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
