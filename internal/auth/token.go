package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const audience = "smart-bookmark"

// Error is an authentication failure with an HTTP status attached.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func unauthorized(message string) *Error {
	return &Error{Status: 401, Code: "unauthorized", Message: message}
}

// Claims identify the bearer of a token.
type Claims struct {
	UserID string
	Exp    int64
}

type payload struct {
	Sub string `json:"sub"`
	Aud string `json:"aud"`
	Exp int64  `json:"exp"`
}

// SignToken mints a compact payload.signature token for userID. Used by
// the tests and by whatever issues sessions in front of this service;
// identity issuance itself lives outside this module.
func SignToken(secret, userID string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("empty signing secret")
	}
	raw, err := json.Marshal(payload{
		Sub: userID,
		Aud: audience,
		Exp: now.Add(ttl).Unix(),
	})
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + "." + sign(secret, body), nil
}

// ParseBearer resolves the current user from an Authorization header.
func ParseBearer(authHeader, secret string, now time.Time) (Claims, *Error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Claims{}, unauthorized("missing or invalid bearer token")
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	parts := strings.Split(raw, ".")
	if len(parts) != 2 {
		return Claims{}, unauthorized("invalid token format")
	}

	expected := sign(secret, parts[0])
	if !hmac.Equal([]byte(parts[1]), []byte(expected)) {
		return Claims{}, unauthorized("token signature mismatch")
	}

	body, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Claims{}, unauthorized("invalid token payload")
	}
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Claims{}, unauthorized("invalid token payload")
	}

	if p.Sub == "" {
		return Claims{}, unauthorized("missing sub claim")
	}
	if p.Aud != audience {
		return Claims{}, unauthorized("invalid aud claim")
	}
	if now.Unix() >= p.Exp {
		return Claims{}, unauthorized("token expired")
	}

	return Claims{UserID: p.Sub, Exp: p.Exp}, nil
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
