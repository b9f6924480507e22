package service_test

import (
	"testing"

	"github.com/courierhq/courier/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := service.NewPasswordHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)

	assert.True(t, hasher.Verify("secret1", digest))
	assert.False(t, hasher.Verify("secret2", digest))
}

func TestPasswordHasher_Salted(t *testing.T) {
	hasher := service.NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	// Equal plaintexts must not produce equal digests
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestPasswordHasher_VerifyMalformedDigest(t *testing.T) {
	hasher := service.NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name   string
		digest string
	}{
		{name: "empty digest", digest: ""},
		{name: "garbage digest", digest: "not-a-bcrypt-hash"},
		{name: "truncated digest", digest: "$2a$04$tooshort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, hasher.Verify("anything", tt.digest))
		})
	}
}
