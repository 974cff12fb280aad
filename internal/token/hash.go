package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// DB照合用の決定的ハッシュ（SHA-256 hex）
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
