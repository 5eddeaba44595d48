package utils

import (
	"fmt"
	"strings"
)

// ValidateRequestID validates a request ID
func ValidateRequestID(requestID string) error {
	if requestID == "" {
		return fmt.Errorf("request ID cannot be empty")
	}
	if len(requestID) > 64 {
		return fmt.Errorf("request ID too long (max 64 characters)")
	}
	return nil
}

// ValidateUserID validates a user ID
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if len(userID) > 64 {
		return fmt.Errorf("user ID too long (max 64 characters)")
	}
	return nil
}

// ValidateRequired validates that a required string field is not blank
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateTransferDirection validates a transfer direction value
func ValidateTransferDirection(direction string) error {
	switch direction {
	case "high-to-low", "low-to-high", "same-level":
		return nil
	case "":
		return fmt.Errorf("transfer direction cannot be empty")
	default:
		return fmt.Errorf("invalid transfer direction: %s", direction)
	}
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // Default limit
	}
	if limit > 100 {
		return 100 // Max limit
	}
	return limit
}

// ValidateOffset validates pagination offset
func ValidateOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ValidateEmail performs a minimal sanity check on an email address
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("invalid email: %s", email)
	}
	return nil
}
