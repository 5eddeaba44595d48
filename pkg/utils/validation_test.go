package utils

import (
	"strings"
	"testing"
)

func TestValidateRequestID(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
		wantErr   bool
	}{
		{"valid ID", "req-12345", false},
		{"empty ID", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"max length", strings.Repeat("a", 64), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequestID(tt.requestID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequestID(%q) error = %v, wantErr %v", tt.requestID, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	if err := ValidateUserID("user-1"); err != nil {
		t.Errorf("Expected no error for valid user ID, got %v", err)
	}
	if err := ValidateUserID(""); err == nil {
		t.Error("Expected error for empty user ID")
	}
	if err := ValidateUserID(strings.Repeat("u", 65)); err == nil {
		t.Error("Expected error for overlong user ID")
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("signature", "signed"); err != nil {
		t.Errorf("Expected no error for present field, got %v", err)
	}
	if err := ValidateRequired("signature", ""); err == nil {
		t.Error("Expected error for empty field")
	}
	if err := ValidateRequired("signature", "   "); err == nil {
		t.Error("Expected error for blank field")
	}
}

func TestValidateTransferDirection(t *testing.T) {
	for _, valid := range []string{"high-to-low", "low-to-high", "same-level"} {
		if err := ValidateTransferDirection(valid); err != nil {
			t.Errorf("Expected %q to be valid, got %v", valid, err)
		}
	}
	if err := ValidateTransferDirection(""); err == nil {
		t.Error("Expected error for empty direction")
	}
	if err := ValidateTransferDirection("sideways"); err == nil {
		t.Error("Expected error for unknown direction")
	}
}

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, 20},
		{"negative uses default", -5, 20},
		{"within range", 50, 50},
		{"over max is capped", 500, 100},
		{"at max", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateLimit(tt.limit); got != tt.want {
				t.Errorf("ValidateLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestValidateOffset(t *testing.T) {
	if got := ValidateOffset(-1); got != 0 {
		t.Errorf("ValidateOffset(-1) = %d, want 0", got)
	}
	if got := ValidateOffset(40); got != 40 {
		t.Errorf("ValidateOffset(40) = %d, want 40", got)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "dao@example.mil", false},
		{"empty", "", true},
		{"missing at", "dao.example.mil", true},
		{"missing local part", "@example.mil", true},
		{"missing domain", "dao@", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}
