package cart

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// newSessionToken builds the opaque token scoping a cart's live item batch:
// a UTC timestamp plus a random suffix.
func newSessionToken() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("SESSION_%s_%s", time.Now().UTC().Format("20060102150405"), hex.EncodeToString(b[:])), nil
}
