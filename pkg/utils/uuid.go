package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// IsUUID reports whether s has the canonical 8-4-4-4-12 UUID shape.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// ConfirmationTokenLength is the length of public quote confirmation tokens.
const ConfirmationTokenLength = 32

// GenerateConfirmationToken returns an unguessable alphanumeric token for
// public accept/reject links.
func GenerateConfirmationToken() (string, error) {
	raw := make([]byte, 48)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	token := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return -1
		}
		return r
	}, encoded)
	if len(token) < ConfirmationTokenLength {
		return GenerateConfirmationToken()
	}
	return token[:ConfirmationTokenLength], nil
}

// GenerateDocumentNumber builds the deterministic offer or invoice number
// "YYYY-MMDD-NNN" for the given issue date and daily sequence.
func GenerateDocumentNumber(issued time.Time, sequence int) string {
	if sequence < 1 {
		sequence = 1
	}
	return fmt.Sprintf("%04d-%02d%02d-%03d", issued.Year(), int(issued.Month()), issued.Day(), sequence)
}

// GenerateCustomerNumber builds a customer number such as "K2026-0042".
func GenerateCustomerNumber(year, sequence int) string {
	return fmt.Sprintf("K%04d-%04d", year, sequence)
}
