/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package empire

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// CodeLength is the number of characters in a game code.
	CodeLength = 6

	// CodeChars excludes 0/O and 1/I so codes survive being read off a TV.
	CodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewCode returns a random game code drawn uniformly from CodeChars.
func NewCode() (string, error) {
	alphabet := big.NewInt(int64(len(CodeChars)))

	code := make([]byte, CodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			return "", fmt.Errorf("generate game code: %w", err)
		}
		code[i] = CodeChars[n.Int64()]
	}

	return string(code), nil
}

// NewToken returns an unguessable hex secret, used for host secrets and
// device tokens.
func NewToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// NewID returns a fresh identifier for players and guesses.
func NewID() string {
	return uuid.NewString()
}

// NormalizeCode maps user input onto the canonical code form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
