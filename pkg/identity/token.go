package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iotbase/iot-auth/pkg/model"
)

var (
	// ErrNoSecret is returned when no session secret is configured
	ErrNoSecret = errors.New("session secret is not configured")

	// ErrInvalidToken is returned for tokens that fail verification
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims are the session token claims
type Claims struct {
	UserID    int64 `json:"uid"`
	CompanyID int64 `json:"company_id"`
	jwt.RegisteredClaims
}

// Issue signs a session token for user valid for ttl.
func Issue(secret []byte, user model.User, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies a session token and returns the identity it carries.
func ParseToken(secret []byte, tokenString string) (*Identity, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing sub or uid claim", ErrInvalidToken)
	}

	id := &Identity{
		Login:     claims.Subject,
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
