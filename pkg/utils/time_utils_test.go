package utils

import (
	"testing"
	"time"
)

func TestMillisRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	millis := TimeToMillis(now)
	if got := MillisToTime(millis); !got.Equal(now) {
		t.Errorf("Round trip mismatch: got %v, want %v", got, now)
	}
}

func TestGetCurrentTimeMillis(t *testing.T) {
	before := time.Now().UnixMilli()
	got := GetCurrentTimeMillis()
	after := time.Now().UnixMilli()
	if got < before || got > after {
		t.Errorf("GetCurrentTimeMillis() = %d, expected between %d and %d", got, before, after)
	}
}

func TestFormatMillis(t *testing.T) {
	// 2024-01-15T10:30:00Z
	millis := int64(1705314600000)
	formatted := FormatMillis(millis)
	parsed, err := time.Parse(time.RFC3339, formatted)
	if err != nil {
		t.Fatalf("Expected RFC3339 output, got %q: %v", formatted, err)
	}
	if parsed.UnixMilli() != millis {
		t.Errorf("Formatted time %q does not round trip to %d", formatted, millis)
	}
}
