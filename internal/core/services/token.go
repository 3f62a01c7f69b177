package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

// TokenIssuer signs the session cookie handed to a voter after lookup.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Issue(sessionID uuid.UUID, dni string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": sessionID.String(),
		"dni": dni,
		"exp": now.Add(t.ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates signature and expiry and returns the session id.
func (t *TokenIssuer) Parse(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrInvalidSession, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidSession)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.Join(domain.ErrInvalidSession, err)
	}
	return id, nil
}
