package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWTAuthenticator struct {
	secret string
	exp    time.Duration
	aud    string
	iss    string
}

func NewJWTAuthenticator(secret string, exp time.Duration, aud, iss string) *JWTAuthenticator {
	return &JWTAuthenticator{secret, exp, aud, iss}
}

// GenerateToken issues a signed bearer token carrying the user id and role.
// There is no refresh token: the client simply logs in again when it
// expires.
func (a *JWTAuthenticator) GenerateToken(userID int64, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  now.Add(a.exp).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"iss":  a.iss,
		"aud":  a.aud,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(a.secret))
}

// ValidateToken validates a bearer token
func (a *JWTAuthenticator) ValidateToken(token string) (*jwt.Token, error) {
	return jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
}
