package server

import (
	"net/http"

	"github.com/redis/go-redis/v9"

	"go-social/internal/auth"
	"go-social/internal/config"
	"go-social/internal/db"
	"go-social/internal/friendship"
	"go-social/internal/message"
	myMiddleware "go-social/internal/middleware"
	"go-social/internal/poll"
	"go-social/internal/user"
)

// App is the wired application: the router plus the long-lived pieces the
// process has to run and shut down.
type App struct {
	Router http.Handler
	Broker *poll.Broker
	// Relay is nil unless a Redis client was supplied.
	Relay *poll.Relay
}

func NewApp(cfg *config.Config, database *db.Database, redisClient *redis.Client) *App {
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	broker := poll.NewBroker(cfg.PollMaxPerUser)

	var notifier message.Notifier = broker
	var relay *poll.Relay
	if redisClient != nil {
		relay = poll.NewRelay(redisClient, broker)
		notifier = relay
	}

	userService := user.NewService(user.NewRepository(database.Conn), tokens, cfg.BcryptCost)
	friendshipService := friendship.NewService(friendship.NewRepository(database.Conn), userService)
	messageService := message.NewService(message.NewRepository(database.Conn), userService, notifier)

	router := NewRouter(Handlers{
		Auth:       myMiddleware.NewAuthMiddleware(tokens),
		User:       user.NewHandler(userService),
		Friendship: friendship.NewHandler(friendshipService),
		Message:    message.NewHandler(messageService),
		Poll:       poll.NewHandler(broker, messageService, cfg.PollTimeout, cfg.PollBatchSize),
	})

	return &App{Router: router, Broker: broker, Relay: relay}
}
