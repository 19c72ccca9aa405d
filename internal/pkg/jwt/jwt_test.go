package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	tokenString, err := svc.GenerateToken("emp-1", "company-1", user.RoleManager, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "company-1", claims["company_id"])
	assert.Equal(t, string(user.RoleManager), claims["role"])
}

func TestGenerateToken_ExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret")

	// Expiry beyond the acceptable clock skew.
	tokenString, err := svc.GenerateToken("emp-1", "company-1", user.RoleEmployee, -time.Hour)
	require.NoError(t, err)

	_, err = svc.JWTAuth().Decode(tokenString)
	assert.Error(t, err)
}
