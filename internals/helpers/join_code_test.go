package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := GenerateJoinCode()
		assert.Len(t, code, JoinCodeLength)
		for _, r := range code {
			assert.Contains(t, joinCodeAlphabet, string(r))
		}
		seen[code] = true
	}
	// 100 kode 8 karakter praktis tidak boleh tabrakan semua
	assert.Greater(t, len(seen), 90)
}

func TestNormalizeJoinCode(t *testing.T) {
	assert.Equal(t, "7QK2MPX4", NormalizeJoinCode("  7qk2-mpx4 "))
	assert.Equal(t, "ABCD", NormalizeJoinCode("abcd"))
	assert.Equal(t, "", NormalizeJoinCode("   "))
}

func TestJoinCodeAlphabetAvoidsAmbiguity(t *testing.T) {
	for _, c := range "01OIL" {
		assert.False(t, strings.ContainsRune(joinCodeAlphabet, c))
	}
}
