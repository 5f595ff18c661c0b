package poll

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-social/internal/apperr"
	"go-social/internal/httputil"
	"go-social/internal/message"
	myMiddleware "go-social/internal/middleware"
)

// MessageLister is the part of the message store the poll endpoints read.
type MessageLister interface {
	ListUnread(ctx context.Context, userID, limit int) ([]message.Message, error)
}

type Handler struct {
	broker    *Broker
	messages  MessageLister
	timeout   time.Duration
	batchSize int
}

func NewHandler(broker *Broker, messages MessageLister, timeout time.Duration, batchSize int) *Handler {
	return &Handler{
		broker:    broker,
		messages:  messages,
		timeout:   timeout,
		batchSize: batchSize,
	}
}

// caller checks that the {id} being polled is the authenticated user.
func (h *Handler) caller(r *http.Request) (int, error) {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return 0, err
	}
	id, err := httputil.URLParamInt(r, "id", apperr.KindNotAuthorized)
	if err != nil {
		return 0, err
	}
	if id != userID {
		return 0, apperr.New(apperr.KindNotAuthorized)
	}
	return userID, nil
}

// Poll answers at once with any unread messages, otherwise holds the request
// until one arrives or the timeout passes.
func (h *Handler) Poll(w http.ResponseWriter, r *http.Request) error {
	userID, err := h.caller(r)
	if err != nil {
		return err
	}

	msgs, err := h.messages.ListUnread(r.Context(), userID, h.batchSize)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		httputil.WriteJSON(w, http.StatusOK, msgs)
		return nil
	}

	msgs, err = h.broker.Wait(r.Context(), userID, h.timeout)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// The client is gone; there is nobody to answer.
			return nil
		}
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, msgs)
	return nil
}
