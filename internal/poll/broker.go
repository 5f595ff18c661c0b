package poll

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-social/internal/apperr"
	"go-social/internal/message"
)

// ErrClosed is returned when subscribing to a broker that has shut down.
var ErrClosed = errors.New("poll broker closed")

const listenerBuffer = 32

// Subscription is one waiting client. A one-shot subscription receives at
// most one batch and is removed when it does. A listener stays registered
// and receives every batch until it is cancelled or falls behind.
type Subscription struct {
	ID        uuid.UUID
	UserID    int
	CreatedAt time.Time

	ch         chan []message.Message
	persistent bool
}

// C delivers pushed batches. It is closed when the broker shuts down or,
// for listeners, when the listener is dropped for being too slow.
func (s *Subscription) C() <-chan []message.Message {
	return s.ch
}

// Broker parks requests per user until a message for that user arrives.
// The map below is the only state shared between request goroutines.
type Broker struct {
	mu         sync.Mutex
	subs       map[int]map[uuid.UUID]*Subscription
	maxPerUser int
	closed     bool
}

func NewBroker(maxPerUser int) *Broker {
	return &Broker{
		subs:       make(map[int]map[uuid.UUID]*Subscription),
		maxPerUser: maxPerUser,
	}
}

func (b *Broker) subscribe(userID int, persistent bool) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	userSubs := b.subs[userID]
	if b.maxPerUser > 0 && len(userSubs) >= b.maxPerUser {
		return nil, apperr.New(apperr.KindTooManyPolls)
	}
	if userSubs == nil {
		userSubs = make(map[uuid.UUID]*Subscription)
		b.subs[userID] = userSubs
	}

	size := 1
	if persistent {
		size = listenerBuffer
	}
	sub := &Subscription{
		ID:         uuid.New(),
		UserID:     userID,
		CreatedAt:  time.Now(),
		ch:         make(chan []message.Message, size),
		persistent: persistent,
	}
	userSubs[sub.ID] = sub
	return sub, nil
}

// Listen registers a persistent listener for userID.
func (b *Broker) Listen(userID int) (*Subscription, error) {
	return b.subscribe(userID, true)
}

// Cancel removes sub. It reports false if sub was already resolved or
// removed, in which case anything delivered is still readable from C.
func (b *Broker) Cancel(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remove(sub)
}

// remove must be called with b.mu held.
func (b *Broker) remove(sub *Subscription) bool {
	userSubs, ok := b.subs[sub.UserID]
	if !ok {
		return false
	}
	if _, ok := userSubs[sub.ID]; !ok {
		return false
	}
	delete(userSubs, sub.ID)
	if len(userSubs) == 0 {
		delete(b.subs, sub.UserID)
	}
	return true
}

// Wait parks until a batch is published for userID, the timeout passes or
// ctx is done. A timeout yields an empty batch. When ctx ends first the
// subscription is dropped and ctx.Err() is returned.
func (b *Broker) Wait(ctx context.Context, userID int, timeout time.Duration) ([]message.Message, error) {
	sub, err := b.subscribe(userID, false)
	if errors.Is(err, ErrClosed) {
		return []message.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msgs := <-sub.ch:
		return orEmpty(msgs), nil
	case <-timer.C:
		if b.Cancel(sub) {
			return []message.Message{}, nil
		}
	case <-ctx.Done():
		if b.Cancel(sub) {
			return nil, ctx.Err()
		}
	}

	// Publish or Close got there first; the channel is already resolved.
	return orEmpty(<-sub.ch), nil
}

func orEmpty(msgs []message.Message) []message.Message {
	if msgs == nil {
		return []message.Message{}
	}
	return msgs
}

// Publish hands msgs to every subscription of userID. One-shot
// subscriptions are removed in the same critical section that resolves
// them, so each is resolved exactly once.
func (b *Broker) Publish(userID int, msgs []message.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs[userID] {
		if !sub.persistent {
			// Buffered with capacity 1 and never sent to before, so this
			// does not block.
			sub.ch <- msgs
			b.remove(sub)
			continue
		}

		select {
		case sub.ch <- msgs:
		default:
			log.Printf("⚠️ dropping slow listener %s for user %d (connected %s ago)", id, userID, time.Since(sub.CreatedAt).Round(time.Second))
			b.remove(sub)
			close(sub.ch)
		}
	}
}

// Notify publishes a single stored message. It satisfies message.Notifier
// when no relay is configured.
func (b *Broker) Notify(_ context.Context, userID int, msg *message.Message) error {
	b.Publish(userID, []message.Message{*msg})
	return nil
}

// Pending returns the number of subscriptions currently registered for
// userID.
func (b *Broker) Pending(userID int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}

// Close resolves every subscription with no data and refuses new ones.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for userID, userSubs := range b.subs {
		for _, sub := range userSubs {
			close(sub.ch)
		}
		delete(b.subs, userID)
	}
}
