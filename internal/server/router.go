package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go-social/internal/friendship"
	"go-social/internal/httputil"
	"go-social/internal/message"
	myMiddleware "go-social/internal/middleware"
	"go-social/internal/poll"
	"go-social/internal/user"
)

type Handlers struct {
	Auth       *myMiddleware.AuthMiddleware
	User       *user.Handler
	Friendship *friendship.Handler
	Message    *message.Handler
	Poll       *poll.Handler
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public Routes
	r.Method("POST", "/user/register", httputil.Handler(h.User.Register))
	r.Method("POST", "/user/login", httputil.Handler(h.User.Login))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Protected Routes (Require JWT)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.Handle)

		r.Method("GET", "/user/me", httputil.Handler(h.User.Me))
		r.Method("GET", "/user/{id}", httputil.Handler(h.User.GetUser))
		r.Method("GET", "/user", httputil.Handler(h.User.SearchUsers))

		r.Route("/friendship", func(r chi.Router) {
			r.Method("POST", "/request", httputil.Handler(h.Friendship.Request))
			r.Method("GET", "/requests", httputil.Handler(h.Friendship.ListRequests))
			r.Method("GET", "/friends", httputil.Handler(h.Friendship.ListFriends))
			r.Method("PUT", "/{id}/accept", httputil.Handler(h.Friendship.Accept))
			r.Method("PUT", "/{id}/reject", httputil.Handler(h.Friendship.Reject))
			r.Method("DELETE", "/{id}", httputil.Handler(h.Friendship.Remove))
		})

		r.Route("/message", func(r chi.Router) {
			r.Method("POST", "/send", httputil.Handler(h.Message.Send))
			r.Method("PUT", "/mark-as-read", httputil.Handler(h.Message.MarkAsRead))
			r.Method("GET", "/{id}", httputil.Handler(h.Message.Get))
		})

		r.Method("GET", "/poll/{id}", httputil.Handler(h.Poll.Poll))
		r.Method("GET", "/poll/{id}/stream", httputil.Handler(h.Poll.Stream))
	})

	return r
}
