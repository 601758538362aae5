package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/debty-app/debty/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrRevokedToken = errors.New("token has been revoked")
)

const issuer = "debty"

// JWTManager handles JWT token generation and validation.
//
// Tokens are stateless except for logout: a revoked token ID is
// remembered until the token would have expired anyway.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // token ID -> expiry
}

// Claims represents the custom JWT claims for a user session.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret and token duration.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
		revoked:       make(map[string]time.Time),
	}
}

// Generate creates a new JWT token for the given user.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a JWT token, returning the claims if valid.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	if m.isRevoked(claims.ID) {
		return nil, ErrRevokedToken
	}

	return claims, nil
}

// Revoke rejects the token with these claims from now on.
func (m *JWTManager) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	expiry := m.now().Add(m.tokenDuration)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.revoked[claims.ID] = expiry
	m.pruneLocked()
}

func (m *JWTManager) isRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}

// pruneLocked forgets revocations of tokens that have expired.
func (m *JWTManager) pruneLocked() {
	now := m.now()
	for id, expiry := range m.revoked {
		if now.After(expiry) {
			delete(m.revoked, id)
		}
	}
}
