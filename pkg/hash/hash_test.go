package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", h)
	assert.True(t, CheckPassword(h, "pw"))
	assert.False(t, CheckPassword(h, "Pw"))
	assert.False(t, CheckPassword("not-a-hash", "pw"))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
