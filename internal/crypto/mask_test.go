package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskString_ShortValuesFullyRedacted(t *testing.T) {
	for _, s := range []string{"", "a", "ab", "abc", "abcd"} {
		assert.Equal(t, "****", MaskString(s), "input %q", s)
	}
}

func TestMaskString_LongValuesPartiallyRevealed(t *testing.T) {
	masked := MaskString("abcdefgh")

	assert.True(t, strings.HasPrefix(masked, "abcd"))
	assert.True(t, strings.HasSuffix(masked, "efgh"))
	assert.Contains(t, masked, "****")
}

func TestMaskString_NeverRevealsMoreThanEightChars(t *testing.T) {
	for _, s := range []string{"abcde", "sk_live_abcdef123456", strings.Repeat("x", 500)} {
		masked := MaskString(s)
		assert.LessOrEqual(t, len(masked)-len("****"), 8, "input %q", s)
	}
}

func TestMaskValues_RecursesAndPreservesNonStrings(t *testing.T) {
	values := map[string]any{
		"token":   "abc123secret",
		"retries": 3,
		"enabled": true,
		"nested": map[string]any{
			"secret_key": "nested-secret-value",
		},
	}

	masked := MaskValues(values)

	assert.Equal(t, "abc1****cret", masked["token"])
	assert.Equal(t, 3, masked["retries"])
	assert.Equal(t, true, masked["enabled"])
	nested, ok := masked["nested"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "nest****alue", nested["secret_key"])

	// Input must not be mutated.
	assert.Equal(t, "abc123secret", values["token"])
}
