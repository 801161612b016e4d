package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("pw1")
	require.NoError(t, err)
	require.NotEmpty(t, h)
	assert.NotEqual(t, "pw1", h)

	assert.True(t, CheckPassword(h, "pw1"))
	assert.False(t, CheckPassword(h, "pw2"))
	assert.False(t, CheckPassword("not-a-hash", "pw1"))
}
