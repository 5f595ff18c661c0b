package user

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

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return err
	}

	u, err := h.Service.Register(r.Context(), &req)
	if err != nil {
		return err
	}

	token, err := h.Service.Token(u.ID)
	if err != nil {
		return err
	}

	w.Header().Set("Authorization", "Bearer "+token)
	httputil.WriteJSON(w, http.StatusOK, u)
	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return err
	}

	token, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		return err
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
	return nil
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}

	u, err := h.Service.GetByID(r.Context(), userID)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, u)
	return nil
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) error {
	id, err := httputil.URLParamInt(r, "id", apperr.KindUserNotFound)
	if err != nil {
		return err
	}

	u, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, u)
	return nil
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) error {
	userID, err := myMiddleware.MustUserID(r)
	if err != nil {
		return err
	}

	users, err := h.Service.Search(r.Context(), r.URL.Query().Get("q"), userID)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, users)
	return nil
}
