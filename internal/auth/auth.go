// Package auth issues and verifies the bearer tokens that identify dashboard
// users. Every store collection is namespaced by the user id carried here.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Plans gate the AI report features.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	UserID string
	Email  string
	Plan   string
}

type claims struct {
	Email string `json:"email,omitempty"`
	Plan  string `json:"plan,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the identity. The user id becomes the subject.
func (m *Manager) Issue(id Identity) (string, error) {
	if id.UserID == "" {
		return "", fmt.Errorf("issue token: user id is required")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: id.Email,
		Plan:  id.Plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and extracts the caller identity. Tokens signed
// with any method other than HS256 are rejected.
func (m *Manager) Parse(tokenString string) (Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	plan := c.Plan
	if plan == "" {
		plan = PlanFree
	}

	return Identity{
		UserID: c.Subject,
		Email:  c.Email,
		Plan:   plan,
	}, nil
}
