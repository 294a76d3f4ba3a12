package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Ana", SanitizeText("  Ana  "))
	assert.Equal(t, "Ana Maria", SanitizeText("Ana\n\tMaria"))
	assert.Equal(t, "Ana", SanitizeText("<b>Ana</b><script>alert(1)</script>"))
	assert.Equal(t, "Tom & Jerry", SanitizeText("Tom & Jerry"))
	assert.Equal(t, "", SanitizeText(""))
	assert.Len(t, []rune(SanitizeText(strings.Repeat("á", 300))), maxFieldRunes)
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "ana@x.com", SanitizeEmail(" ana@x.com "))
	assert.Equal(t, "ana@x.com", SanitizeEmail("Ana <ana@x.com>"))
	assert.Equal(t, "", SanitizeEmail("ana@"))
	assert.Equal(t, "", SanitizeEmail("not an email"))
	assert.Equal(t, "", SanitizeEmail(""))
}

func TestSanitizeLanding(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://x/lp1", "https://x/lp1"},
		{"  https://x/lp1?utm=a ", "https://x/lp1?utm=a"},
		{"HTTP://x/lp1", "http://x/lp1"},
		{"/lp1", "/lp1"},
		{"/lp2?utm=b", "/lp2?utm=b"},
		{"x.com/lp1", "http://x.com/lp1"},
		{"www.x.com", "http://www.x.com"},
		{"landing-ebook", "landing-ebook"},
		{"not a url", "not a url"},
		{"javascript:alert(1)", "javascript:alert(1)"},
		{"https://x/\nlp", "https://x/lp"},
		{" \t\n", ""},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SanitizeLanding(tc.in), tc.in)
	}
	assert.Len(t, []rune(SanitizeLanding("/"+strings.Repeat("a", 3000))), maxLandingRunes)
}
