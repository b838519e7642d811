package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := TokenService{Secret: []byte("test-secret"), Issuer: "test-issuer"}

	tokenStr, err := svc.CreateToken("subject-1", "user@example.com", time.Hour)
	require.NoError(t, err)

	token, claims, err := svc.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "subject-1", claims["sub"])
	assert.Equal(t, "user@example.com", claims["email"])
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	minter := TokenService{Secret: []byte("right"), Issuer: "test-issuer"}
	verifier := TokenService{Secret: []byte("wrong"), Issuer: "test-issuer"}

	tokenStr, err := minter.CreateToken("subject-1", "user@example.com", time.Hour)
	require.NoError(t, err)

	_, _, err = verifier.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestTokenRejectsWrongIssuer(t *testing.T) {
	minter := TokenService{Secret: []byte("secret"), Issuer: "other-issuer"}
	verifier := TokenService{Secret: []byte("secret"), Issuer: "test-issuer"}

	tokenStr, err := minter.CreateToken("subject-1", "user@example.com", time.Hour)
	require.NoError(t, err)

	_, _, err = verifier.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := TokenService{Secret: []byte("secret"), Issuer: "test-issuer"}

	tokenStr, err := svc.CreateToken("subject-1", "user@example.com", -time.Minute)
	require.NoError(t, err)

	_, _, err = svc.ParseToken(tokenStr)
	assert.Error(t, err)
}
