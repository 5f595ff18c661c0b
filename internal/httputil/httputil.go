package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-social/internal/apperr"
)

const internalErrorMessage = "Something went wrong"

// Handler is an http handler that reports failures by returning them.
// ServeHTTP is the single place where errors become responses.
type Handler func(http.ResponseWriter, *http.Request) error

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		WriteError(w, r, err)
	}
}

type errorBody struct {
	Message string `json:"message"`
}

// WriteError maps tagged errors to their status and message. Anything else
// is logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		WriteJSON(w, appErr.Status(), errorBody{Message: appErr.Message})
		return
	}

	log.Printf("❌ %s %s: %v", r.Method, r.URL.Path, err)
	WriteJSON(w, http.StatusInternalServerError, errorBody{Message: internalErrorMessage})
}

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ encode response: %v", err)
	}
}

// DecodeJSON reads the request body into dst. An empty body leaves dst
// untouched so that field validation reports what is missing.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.WithMessage(apperr.KindValidation, "Invalid request body: "+err.Error())
	}
	return nil
}

// URLParamInt parses the named chi route parameter as an int. A malformed
// value is reported as notFound, since no record can carry that id.
func URLParamInt(r *http.Request, name string, notFound apperr.Kind) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, apperr.New(notFound)
	}
	return id, nil
}
