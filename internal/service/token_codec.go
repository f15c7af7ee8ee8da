package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"prd-generator/internal/model"
)

// TokenCodec issues and decodes HS256 access tokens. It is stateless:
// validity is fully determined by the signature and the exp claim, so a
// token cannot be revoked before it expires.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &TokenCodec{secret: []byte(secret), ttl: ttl}, nil
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token asserting subject for the configured TTL.
func (c *TokenCodec) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	})

	return token.SignedString(c.secret)
}

// Decode validates tokenString and returns its claims. Failures are one of
// model.ErrTokenMalformed, model.ErrTokenBadSignature or
// model.ErrTokenExpired. Expiry is evaluated against the local clock.
func (c *TokenCodec) Decode(tokenString string) (*model.TokenClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return c.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, model.ErrTokenBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, model.ErrTokenExpired
		default:
			return nil, model.ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, model.ErrTokenMalformed
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenMalformed
	}

	subject, _ := claimsMap["sub"].(string)
	if subject == "" {
		return nil, model.ErrTokenMalformed
	}

	claims := &model.TokenClaims{Subject: subject}
	if exp, expErr := claimsMap.GetExpirationTime(); expErr == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, iatErr := claimsMap.GetIssuedAt(); iatErr == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	return claims, nil
}
