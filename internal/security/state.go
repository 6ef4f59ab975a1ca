package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidState = errors.New("invalid oauth state")

func RandomString(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SignState returns "<nonce>.<mac>" so the callback can reject states it never issued.
func SignState(nonce, secret string) string {
	return nonce + "." + stateMAC(nonce, secret)
}

func VerifySignedState(signed, secret string) (string, error) {
	nonce, mac, ok := strings.Cut(signed, ".")
	if !ok || nonce == "" || mac == "" {
		return "", ErrInvalidState
	}
	if !hmac.Equal([]byte(mac), []byte(stateMAC(nonce, secret))) {
		return "", ErrInvalidState
	}
	return nonce, nil
}

func stateMAC(nonce, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte("oauth-state:"))
	h.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// ConstantTimeEqual compares tokens without leaking where they differ.
func ConstantTimeEqual(a, b string) bool {
	return a != "" && hmac.Equal([]byte(a), []byte(b))
}
