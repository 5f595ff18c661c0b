package friendship

import (
	"context"
	"net/http"

	"go-social/internal/apperr"
	"go-social/internal/httputil"
	myMiddleware "go-social/internal/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) Request(w http.ResponseWriter, r *http.Request) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return err
	}

	f, err := h.Service.Request(r.Context(), userID, req.ToUserID)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, f)
	return nil
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}

	friendships, err := h.Service.ListRequests(r.Context(), userID)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, friendships)
	return nil
}

func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}

	friendships, err := h.Service.ListFriends(r.Context(), userID)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, friendships)
	return nil
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) error {
	return h.transition(w, r, h.Service.Accept)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) error {
	return h.transition(w, r, h.Service.Reject)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, friendshipID, actingUserID int) (*Friendship, error)) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}
	id, err := httputil.URLParamInt(r, "id", apperr.KindFriendshipNotFound)
	if err != nil {
		return err
	}

	f, err := apply(r.Context(), id, userID)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, f)
	return nil
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}
	id, err := httputil.URLParamInt(r, "id", apperr.KindFriendshipNotFound)
	if err != nil {
		return err
	}

	if err := h.Service.Remove(r.Context(), id, userID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
