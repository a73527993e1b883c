package gateway

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/docgate/docgate-go/internal/config"
)

// TokenIssuer mints and verifies the gateway's JWTs. Access tokens are
// short-lived bearer credentials; refresh tokens live in the http-only
// cookie and carry type "refresh" so one can never stand in for the other.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer creates an issuer with a random per-process signing key.
// Tokens do not survive a gateway restart, which is fine for a dev tool.
func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	secret := make([]byte, 32)
	rand.Read(secret)
	return &TokenIssuer{
		secret:     secret,
		accessTTL:  time.Duration(cfg.Auth.AccessTTL) * time.Minute,
		refreshTTL: time.Duration(cfg.Auth.RefreshTTL) * 24 * time.Hour,
	}
}

type gatewayClaims struct {
	Type string `json:"type"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AccessToken mints a bearer token for the given user.
func (ti *TokenIssuer) AccessToken(userID, role string) (string, error) {
	return ti.sign(gatewayClaims{
		Type: "access",
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ti.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// RefreshToken mints the cookie token for the given user.
func (ti *TokenIssuer) RefreshToken(userID string) (string, error) {
	return ti.sign(gatewayClaims{
		Type: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ti.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func (ti *TokenIssuer) sign(claims gatewayClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Verify parses a token and checks that it is of the wanted type
// ("access" or "refresh"). Returns the subject user ID.
func (ti *TokenIssuer) Verify(tokenString, wantType string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &gatewayClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*gatewayClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.Type != wantType {
		return "", fmt.Errorf("wrong token type %q", claims.Type)
	}
	return claims.Subject, nil
}

// RefreshCookieMaxAge is the cookie lifetime in seconds.
func (ti *TokenIssuer) RefreshCookieMaxAge() int {
	return int(ti.refreshTTL.Seconds())
}

// newID returns a short random hex identifier.
func newID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
