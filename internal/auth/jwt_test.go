package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleHierarchy(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleUser))
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleUser.AtLeast(RoleUser))
	assert.False(t, RoleUser.AtLeast(RoleAdmin))
	assert.False(t, RoleAdmin.AtLeast(RoleSuperAdmin))

	assert.True(t, RoleSuperAdmin.Known())
	assert.False(t, Role("owner").Known(), "roles outside the hierarchy must not be known")
	assert.False(t, Role("owner").AtLeast(RoleUser), "unknown role must not reach any tier")
}

func TestJwtSignAndVerify(t *testing.T) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	method := jwt.GetSigningMethod("EdDSA")
	issuer := NewJwtIssuer("test-issuer", method, 3*time.Minute, privateKey)
	validator := NewJwtValidator(method, publicKey)

	issuedAt := time.Now().UTC()
	principal := Principal{ID: "7c9356cf-e590-44ae-90e7-054cd2e95811", Role: RoleAdmin}

	token, err := issuer.Sign(principal, issuedAt)
	require.NoError(t, err, "failed to sign token")
	assert.Equal(t, issuedAt.Add(3*time.Minute).Unix(), token.ExpiresAt, "incorrect expiry")

	verified, err := validator.Verify(token.Signed)
	require.NoError(t, err, "failed to verify own token")
	assert.Equal(t, principal, verified, "verification must restore the signed principal")
}

func TestJwtVerifyRejectsForeignKey(t *testing.T) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	foreignPublicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	method := jwt.GetSigningMethod("EdDSA")
	issuer := NewJwtIssuer("test-issuer", method, 3*time.Minute, privateKey)
	validator := NewJwtValidator(method, foreignPublicKey)

	token, err := issuer.Sign(Principal{ID: "7c9356cf-e590-44ae-90e7-054cd2e95811", Role: RoleUser}, time.Now().UTC())
	require.NoError(t, err)

	_, err = validator.Verify(token.Signed)
	assert.Error(t, err, "token signed with another key must not verify")
}

func TestJwtVerifyRejectsExpired(t *testing.T) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	method := jwt.GetSigningMethod("EdDSA")
	issuer := NewJwtIssuer("test-issuer", method, time.Minute, privateKey)
	validator := NewJwtValidator(method, publicKey)

	token, err := issuer.Sign(Principal{ID: "7c9356cf-e590-44ae-90e7-054cd2e95811", Role: RoleUser}, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)

	_, err = validator.Verify(token.Signed)
	assert.Error(t, err, "expired token must not verify")
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := GeneratePasswordHash("secret_password")
	require.NoError(t, err, "failed to hash password")

	assert.NoError(t, VerifyPassword(hash, "secret_password"), "correct password must verify")
	assert.Error(t, VerifyPassword(hash, "wrong_password"), "wrong password must not verify")
}
