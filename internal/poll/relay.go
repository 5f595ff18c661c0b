package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"go-social/internal/message"
)

const relayChannel = "poll:messages"

type relayEvent struct {
	UserID  int             `json:"userId"`
	Message message.Message `json:"message"`
}

// Relay fans message notifications out through Redis pub/sub so that a
// poller parked on any instance is woken. Parked requests themselves never
// leave the local broker.
type Relay struct {
	redis  *redis.Client
	broker *Broker
}

func NewRelay(redisClient *redis.Client, broker *Broker) *Relay {
	return &Relay{redis: redisClient, broker: broker}
}

// Notify publishes msg for userID to every instance, this one included.
// When Redis cannot be reached the local broker is still woken, so only
// pollers parked on other instances miss the push.
func (r *Relay) Notify(ctx context.Context, userID int, msg *message.Message) error {
	payload, err := json.Marshal(relayEvent{UserID: userID, Message: *msg})
	if err != nil {
		r.broker.Publish(userID, []message.Message{*msg})
		return err
	}
	if err := r.redis.Publish(ctx, relayChannel, payload).Err(); err != nil {
		r.broker.Publish(userID, []message.Message{*msg})
		return fmt.Errorf("publish to redis: %w", err)
	}
	return nil
}

// Run feeds events from Redis into the local broker until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.redis.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed so startup fails loudly.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", relayChannel, err)
	}
	log.Printf("✅ Subscribed to Redis channel %s", relayChannel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.dispatch(msg.Payload)
		}
	}
}

func (r *Relay) dispatch(payload string) {
	var ev relayEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		log.Printf("❌ bad relay payload: %v", err)
		return
	}
	r.broker.Publish(ev.UserID, []message.Message{ev.Message})
}
