package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
)

func newTestAuthService(expiry time.Duration) *AuthService {
	return NewAuthService(zap.NewNop(), AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: expiry,
		Issuer:            "staffdash-api",
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestAuthService(time.Hour)

	token, expiresAt, err := svc.IssueToken("user-1", "coach@club.test", "Anna Lind", models.RoleCoach)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "coach@club.test", claims.Email)
	assert.Equal(t, "Anna Lind", claims.FullName)
	assert.Equal(t, models.RoleCoach, claims.Role)
	assert.Equal(t, "staffdash-api", claims.Issuer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	claims := &models.JWTClaims{
		UserID: "user-1",
		Role:   models.RoleCoach,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(issued),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	svc := newTestAuthService(time.Hour)
	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(zap.NewNop(), AuthConfig{AccessTokenSecret: "other-secret", AccessTokenExpiry: time.Hour})
	token, _, err := issuer.IssueToken("user-1", "coach@club.test", "Anna Lind", models.RoleCoach)
	require.NoError(t, err)

	svc := newTestAuthService(time.Hour)
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsWrongAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &models.JWTClaims{UserID: "user-1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	svc := newTestAuthService(time.Hour)
	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
}
