package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// inviteCodeBytes gives 128 bits of entropy per code. Uniqueness rests on
// entropy alone; no collision retry is performed against existing codes.
const inviteCodeBytes = 16

// generateInviteCode returns a high-entropy URL-safe invite code
func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
