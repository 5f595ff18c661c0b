package message

import (
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

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}

	var req SendRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return err
	}

	msg, err := h.Service.Send(r.Context(), userID, &req)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, msg)
	return nil
}

func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}

	var req MarkReadRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return err
	}

	if err := h.Service.MarkReadRange(r.Context(), userID, &req); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}
	id, err := httputil.URLParamInt(r, "id", apperr.KindMessageNotFound)
	if err != nil {
		return err
	}

	msg, err := h.Service.GetByID(r.Context(), id, userID)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, msg)
	return nil
}
