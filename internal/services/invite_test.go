package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteCodesAreURLSafeAndDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := generateInviteCode()
		require.NoError(t, err)
		assert.NotContains(t, code, "+")
		assert.NotContains(t, code, "/")
		assert.NotContains(t, code, "=")
		assert.False(t, seen[code], "invite code repeated")
		seen[code] = true
	}
}
