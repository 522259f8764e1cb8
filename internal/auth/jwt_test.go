package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyway/coursegate/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour, "coursegate")
	account := &domain.Account{
		ID:    "acc-1",
		Phone: "+15551234567",
		Role:  domain.RoleInstructor,
	}

	token, err := m.GenerateAccessToken(account)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "+15551234567", claims.Phone)
	assert.Equal(t, domain.RoleInstructor, claims.Role)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager(testSecret, -time.Minute, "coursegate")

	token, err := m.GenerateAccessToken(&domain.Account{ID: "acc-1"})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour, "coursegate")
	other := NewJWTManager("ffffffffffffffffffffffffffffffff", time.Hour, "coursegate")

	token, err := m.GenerateAccessToken(&domain.Account{ID: "acc-1"})
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour, "coursegate")
	_, err := m.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}
