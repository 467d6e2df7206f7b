package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/ougirez/mapwizard/internal/pkg/constants"
)

// SessionTokenWrapper are the claims of a wizard session token.
type SessionTokenWrapper struct {
	jwt.StandardClaims
	SessionID string `json:"sid"`
}

func GenerateSessionToken(sessionID string, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionTokenWrapper{
		StandardClaims: jwt.StandardClaims{
			Subject:   sessionID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		SessionID: sessionID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}
	return token, nil
}

func ParseSessionToken(raw string, secret string) (*SessionTokenWrapper, error) {
	claims := new(SessionTokenWrapper)
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnauthorized, err.Error())
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, constants.ErrUnauthorized
	}
	return claims, nil
}
