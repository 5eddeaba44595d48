package utils

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateID generates a new UUID for request, user, or event IDs
func GenerateID() string {
	return uuid.New().String()
}

// GenerateAuditID generates a unique audit log entry ID
func GenerateAuditID() string {
	return "AUDIT-" + uuid.New().String()
}

// GenerateEventID generates a unique security event ID
func GenerateEventID() string {
	return "EVT-" + uuid.New().String()
}

// GenerateRequestNumber generates a human-readable request number in the
// form AFT-<base36 timestamp>-<base36 random>. The format is part of the
// external contract: reporting and history consumers parse it.
func GenerateRequestNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to the
		// clock so request creation still succeeds if it somehow does
		binary.BigEndian.PutUint32(buf[:], uint32(time.Now().UnixNano()))
	}
	randPart := strings.ToUpper(strconv.FormatUint(uint64(binary.BigEndian.Uint32(buf[:])), 36))
	for len(randPart) < 6 {
		randPart = "0" + randPart
	}

	return "AFT-" + ts + "-" + randPart
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
