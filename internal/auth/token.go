package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Claims is the payload embedded in a session token. Tokens are
// self-contained: once issued there is no server-side revocation,
// the token stays valid until Exp elapses.
type Claims struct {
	UserID   int64 `json:"uid"`
	IssuedAt int64 `json:"iat"`
	Exp      int64 `json:"exp"`
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Issue produces a signed token bound to userID, expiring ttl from now.
func Issue(secret []byte, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	return IssueWithClaims(secret, Claims{
		UserID:   userID,
		IssuedAt: now.Unix(),
		Exp:      now.Add(ttl).Unix(),
	})
}

func IssueWithClaims(secret []byte, claims Claims) (string, error) {
	payloadBytes, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	signature := sign(secret, payload)
	return payload + "." + signature, nil
}

// Verify validates the signature and expiry and returns the embedded
// user id. Callers must treat that id as authoritative for ownership
// checks against resource-owner fields.
func Verify(secret []byte, token string) (int64, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return 0, ErrInvalidToken
	}
	payload := parts[0]
	signature := parts[1]

	expected := sign(secret, payload)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return 0, ErrInvalidToken
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return 0, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return 0, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Exp == 0 {
		return 0, ErrInvalidToken
	}
	if time.Now().Unix() >= claims.Exp {
		return 0, ErrExpiredToken
	}
	return claims.UserID, nil
}

func sign(secret []byte, payload string) string {
	sum := hmac.New(sha256.New, secret)
	_, _ = sum.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(sum.Sum(nil))
}
