package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewBcrypt(bcrypt.MinCost)

	for _, pw := range []string{"password1", "correct horse battery staple", "ünïcødé-pässwörd"} {
		pw := pw
		t.Run(pw, func(t *testing.T) {
			t.Parallel()

			hash, err := h.Hash(pw)
			require.NoError(t, err)
			assert.NotEqual(t, pw, hash)
			assert.True(t, strings.HasPrefix(hash, "$2a$"))

			assert.True(t, h.Verify(pw, hash))
			assert.False(t, h.Verify(pw+"x", hash))
			assert.False(t, h.Verify("", hash))
		})
	}
}

func TestBcrypt_SaltedHashesDiffer(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	first, err := h.Hash("password1")
	require.NoError(t, err)
	second, err := h.Hash("password1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcrypt_EmptyPassword(t *testing.T) {
	_, err := NewBcrypt(bcrypt.MinCost).Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestBcrypt_TooLongPassword(t *testing.T) {
	_, err := NewBcrypt(bcrypt.MinCost).Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestBcrypt_MalformedHash(t *testing.T) {
	assert.False(t, NewBcrypt(bcrypt.MinCost).Verify("password1", "not-a-hash"))
}

func TestNewBcrypt_Cost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcrypt(0).Cost())
	assert.Equal(t, DefaultCost, NewBcrypt(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, NewBcrypt(12).Cost())

	hash, err := NewBcrypt(DefaultCost).Hash("password1")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}
