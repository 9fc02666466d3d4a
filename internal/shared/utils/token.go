package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// SubmissionTokenLength is the length of a submission token in hex characters.
const SubmissionTokenLength = 64

// GenerateSubmissionToken mints an opaque capability token: sha256 over the
// current millisecond timestamp and 24 random bytes, hex encoded.
func GenerateSubmissionToken() (string, error) {
	buf := make([]byte, 8+24)
	binary.BigEndian.PutUint64(buf[:8], uint64(time.Now().UnixMilli()))
	if _, err := rand.Read(buf[8:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])[:SubmissionTokenLength], nil
}

// IsValidTokenFormat reports whether token is exactly 64 lowercase hex characters.
// Handlers call it before any lookup so malformed input never reaches SQL.
func IsValidTokenFormat(token string) bool {
	if len(token) != SubmissionTokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
