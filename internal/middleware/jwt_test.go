package myMiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-social/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenService("secret", 0)
	validToken, _ := tokens.Sign(123)
	foreignToken, _ := auth.NewTokenService("other", 0).Sign(123)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r.Context())
		if !ok {
			t.Error("Expected userID in context")
		}
		if userID != 123 {
			t.Errorf("Expected userID 123, got %v", userID)
		}
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "Valid token",
			header:         "Bearer " + validToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "No authorization token was found",
		},
		{
			name:           "Wrong scheme",
			header:         "Basic " + validToken,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Format is Authorization: Bearer [token]",
		},
		{
			name:           "Token without scheme",
			header:         validToken,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Format is Authorization: Bearer [token]",
		},
		{
			name:           "Invalid signature",
			header:         "Bearer " + foreignToken,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	am := NewAuthMiddleware(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			am.Handle(nextHandler).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if rr.Code == http.StatusOK {
				return
			}

			var body map[string]string
			json.NewDecoder(rr.Body).Decode(&body)
			if body["message"] == "" {
				t.Error("expected an error message")
			}
			if tt.expectedMsg != "" && body["message"] != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, body["message"])
			}
		})
	}
}

func TestMustUserIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, err := MustUserID(req); err == nil {
		t.Error("expected error when no user is in context")
	}
}

func TestAuthMiddlewareQueryToken(t *testing.T) {
	tokens := auth.NewTokenService("secret", 0)
	validToken, _ := tokens.Sign(123)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, _ := UserID(r.Context()); userID != 123 {
			t.Errorf("Expected userID 123, got %v", userID)
		}
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		query          string
		upgrade        bool
		expectedStatus int
	}{
		{name: "Websocket handshake", query: "?token=" + validToken, upgrade: true, expectedStatus: http.StatusOK},
		{name: "Websocket handshake with bad token", query: "?token=garbage", upgrade: true, expectedStatus: http.StatusUnauthorized},
		{name: "Websocket handshake without token", query: "", upgrade: true, expectedStatus: http.StatusUnauthorized},
		{name: "Plain request", query: "?token=" + validToken, upgrade: false, expectedStatus: http.StatusUnauthorized},
	}

	am := NewAuthMiddleware(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/poll/123/stream"+tt.query, nil)
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			rr := httptest.NewRecorder()

			am.Handle(next).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}
