package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "seller@mail.com", "seller")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "seller@mail.com", claims.Email)
	assert.Equal(t, "seller", claims.Role)
}

func TestJWTService_ValidateInvalidToken(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", -time.Second)

	token, err := svc.GenerateAccessToken(uuid.New(), "expired@mail.com", "seller")
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateWrongSecretAndMissingUser(t *testing.T) {
	issuer := NewJWTService("other-secret", time.Minute)
	token, err := issuer.GenerateAccessToken(uuid.New(), "x@y.z", "seller")
	assert.NoError(t, err)

	_, err = NewJWTService("secret", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := NewJWTService("secret", time.Minute).GenerateAccessToken(uuid.Nil, "x@y.z", "seller")
	assert.NoError(t, err)
	_, err = NewJWTService("secret", time.Minute).ValidateToken(noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateWrongSigningMethod(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)

	claims := gjwt.MapClaims{
		"userId": uuid.NewString(),
		"email":  "x@y.z",
		"role":   "seller",
		"exp":    time.Now().Add(time.Minute).Unix(),
	}
	unsigned := gjwt.NewWithClaims(gjwt.SigningMethodNone, claims)
	tokenStr, err := unsigned.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_SignFailure(t *testing.T) {
	orig := signJWTToken
	t.Cleanup(func() { signJWTToken = orig })
	signJWTToken = func(*gjwt.Token, []byte) (string, error) { return "", errors.New("sign failed") }

	_, err := NewJWTService("secret", time.Minute).GenerateAccessToken(uuid.New(), "x@y.z", "seller")
	assert.Error(t, err)
}

func TestRawTokenContext(t *testing.T) {
	_, ok := RawTokenFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithRawToken(context.Background(), "abc")
	token, ok := RawTokenFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}
