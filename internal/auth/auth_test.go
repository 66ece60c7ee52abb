package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pos-ticketing/internal/auth"
	"github.com/spec-kit/pos-ticketing/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 60)
	staff := &domain.StaffMember{ID: 42, Name: "dana", Role: domain.StaffRoleCashier}

	token, expiresAt, err := tm.GenerateToken(staff)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.StaffID)
	assert.Equal(t, domain.StaffRoleCashier, claims.Role)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", 60)
	verifier := auth.NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken(&domain.StaffMember{ID: 1, Role: domain.StaffRoleServer})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestPINHashing(t *testing.T) {
	hash, err := auth.HashPIN("1234", 4)
	require.NoError(t, err)

	assert.NoError(t, auth.ComparePIN(hash, "1234"))
	assert.Error(t, auth.ComparePIN(hash, "4321"))
}
