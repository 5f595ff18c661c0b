package validation

import (
	"testing"

	"go-social/internal/apperr"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name        string
		input       signup
		expectedMsg string
	}{
		{
			name:  "Valid",
			input: signup{Email: "alice@example.com", FullName: "Alice", Password: "password1"},
		},
		{
			name:        "Missing email",
			input:       signup{FullName: "Alice", Password: "password1"},
			expectedMsg: `"email" is required`,
		},
		{
			name:        "Malformed email",
			input:       signup{Email: "alice@", FullName: "Alice", Password: "password1"},
			expectedMsg: `"email" must be a valid email`,
		},
		{
			name:        "Empty full name",
			input:       signup{Email: "alice@example.com", Password: "password1"},
			expectedMsg: `"fullName" is required`,
		},
		{
			name:        "Short password",
			input:       signup{Email: "alice@example.com", FullName: "Alice", Password: "short"},
			expectedMsg: `"password" length must be at least 8 characters long`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.expectedMsg == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}

			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if err.Error() != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, err.Error())
			}
		})
	}
}
