package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors.
var (
	ErrMissingEmail = errors.New("claims must contain an email")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenConfig contains token signing settings.
type TokenConfig struct {
	SecretKey     string
	TokenDuration time.Duration
}

// TokenAuthenticator mints and verifies stateless HS256 session tokens.
// There is no server-side revocation: a token stays valid until its expiry.
type TokenAuthenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenAuthenticator creates a token authenticator.
func NewTokenAuthenticator(cfg TokenConfig) *TokenAuthenticator {
	ttl := cfg.TokenDuration
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &TokenAuthenticator{
		secret: []byte(cfg.SecretKey),
		ttl:    ttl,
	}
}

// IssueToken signs the supplied claims with an absolute expiry. The caller
// has established identity out of band; the only requirement is a non-empty
// email claim.
func (a *TokenAuthenticator) IssueToken(payload map[string]interface{}) (string, error) {
	email, _ := payload["email"].(string)
	if email == "" {
		return "", ErrMissingEmail
	}

	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(a.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates a bearer token and returns the embedded email along
// with the decoded claims. Implements httputil.TokenVerifier.
func (a *TokenAuthenticator) VerifyToken(_ context.Context, tokenString string) (string, map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return "", nil, ErrInvalidToken
	}

	return email, map[string]interface{}(claims), nil
}
