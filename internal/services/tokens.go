package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService verifies HS256 access tokens minted by the external identity
// provider with a shared secret. CreateToken mirrors what the provider issues
// and exists for tests and local tooling.
type TokenService struct {
	Secret []byte
	Issuer string
}

func (t TokenService) CreateToken(subject, email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss":   t.Issuer,
		"sub":   subject,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

func (t TokenService) ParseToken(tokenStr string) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer), jwt.WithValidMethods([]string{"HS256"}))
	return token, claims, err
}
