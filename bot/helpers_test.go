package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEscapesReservedChars(t *testing.T) {
	assert.Equal(t, "plain text", Sanitize("plain text"))
	assert.Equal(t, "42 \\-\\> CODE\\.", Sanitize("42 -> CODE."))
	assert.Equal(t, "\\[x\\]\\(y\\)", Sanitize("[x](y)"))
}

func TestSplitMessageShortText(t *testing.T) {
	parts := splitMessage("short", 100)
	assert.Equal(t, []string{"short"}, parts)
}

func TestSplitMessagePrefersNewlineBoundary(t *testing.T) {
	text := strings.Repeat("line one\n", 20)
	parts := splitMessage(text, 50)

	assert.Greater(t, len(parts), 1)
	for _, part := range parts[:len(parts)-1] {
		assert.True(t, strings.HasSuffix(part, "\n"), "parts should split at newlines")
		assert.LessOrEqual(t, len(part), 50)
	}
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestSplitMessageHardCut(t *testing.T) {
	text := strings.Repeat("x", 120)
	parts := splitMessage(text, 50)
	assert.Equal(t, []string{strings.Repeat("x", 50), strings.Repeat("x", 50), strings.Repeat("x", 20)}, parts)
}
