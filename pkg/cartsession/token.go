package cartsession

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/bookshop-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ErrInvalidToken is returned for tokens that fail signature, issuer or expiry checks.
var ErrInvalidToken = errors.New("invalid cart session token")

// Claims identify one anonymous cart session. The session id is the JWT subject.
type Claims struct {
	jwt.RegisteredClaims
}

// SessionID returns the session identifier carried by the token.
func (c *Claims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}

// Issuer mints and verifies cart session tokens.
type Issuer struct {
	cfg config.SessionConfig
	now func() time.Time
}

// NewIssuer validates cfg and returns an Issuer.
func NewIssuer(cfg config.SessionConfig) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("session issuer is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Issuer{cfg: cfg, now: time.Now}, nil
}

// TTL is the lifetime of minted tokens.
func (i *Issuer) TTL() time.Duration {
	return i.cfg.TTL
}

// Mint issues a token for a fresh random session id.
func (i *Issuer) Mint() (token string, sessionID string, err error) {
	sessionID = uuid.NewString()
	token, err = i.MintFor(sessionID)
	return token, sessionID, err
}

// MintFor issues a token for an existing session id, extending its lifetime.
func (i *Issuer) MintFor(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Parse validates the token string and returns its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(i.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SessionID() == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// NeedsRefresh reports whether less than half of the token lifetime remains.
func (i *Issuer) NeedsRefresh(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Sub(i.now()) < i.cfg.TTL/2
}
