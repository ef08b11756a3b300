package session

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/chacha20poly1305"
)

// tokenCipher seals backend tokens before they reach the session table.
type tokenCipher struct {
	key [chacha20poly1305.KeySize]byte
}

func newTokenCipher(secret string) *tokenCipher {
	return &tokenCipher{key: sha256.Sum256([]byte(secret))}
}

// seal returns nonce || ciphertext. The session id is bound as associated
// data so a ciphertext cannot be replayed under another session row.
func (c *tokenCipher) seal(sessionID, token string) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(token)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, []byte(token), []byte(sessionID)), nil
}

func (c *tokenCipher) open(sessionID string, sealed []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize() {
		return "", errors.New("sealed token too short")
	}
	nonce, ct := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, []byte(sessionID))
	if err != nil {
		return "", fmt.Errorf("open token: %w", err)
	}
	return string(plain), nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend remains the authority on validity. Tokens that are not JWTs or
// carry no exp fall back to now+ttl.
func tokenExpiry(token string, now time.Time, ttl time.Duration) time.Time {
	fallback := now.Add(ttl)
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	return exp.Time
}
