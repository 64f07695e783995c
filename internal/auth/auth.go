// Package auth issues and validates the JWT pair used by the HTTP API.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers expired, malformed, or mistyped tokens.
var ErrInvalidToken = errors.New("invalid token")

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// identityKey is where middleware stores the caller's username.
	identityKey = "username"
)

// Claims are the JWT claims carried by both token types.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 token pairs.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueTokens returns a fresh access/refresh pair for the user.
func (m *Manager) IssueTokens(username string) (access, refresh string, err error) {
	access, err = m.sign(username, tokenTypeAccess, m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.sign(username, tokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *Manager) sign(username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (m *Manager) parse(token, wantType string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccess validates an access token and returns the username.
func (m *Manager) VerifyAccess(token string) (string, error) {
	claims, err := m.parse(token, tokenTypeAccess)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// RefreshAccess exchanges a valid refresh token for a new access token.
func (m *Manager) RefreshAccess(refreshToken string) (string, error) {
	claims, err := m.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return m.sign(claims.Subject, tokenTypeAccess, m.accessTTL)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// Middleware rejects requests without a valid access token and records the
// caller's identity in the gin context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Missing Authorization header"})
			return
		}
		username, err := m.VerifyAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid or expired token"})
			return
		}
		c.Set(identityKey, username)
		c.Next()
	}
}

// Identity returns the username set by Middleware.
func Identity(c *gin.Context) string {
	return c.GetString(identityKey)
}

// BearerToken extracts the raw Bearer token, for handlers that validate the
// refresh token themselves.
func BearerToken(c *gin.Context) (string, bool) {
	return bearerToken(c)
}
