package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Go for Beginners", "go-for-beginners"},
		{"  Advanced   SQL!  ", "advanced-sql"},
		{"C++ & Rust: Systems", "c-rust-systems"},
		{"УЖЕ-non-ascii", "non-ascii"},
		{"100 Days of Code", "100-days-of-code"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestCleanKeywords(t *testing.T) {
	got := CleanKeywords([]string{" go ", "go", "", "sql", "  "})
	assert.Equal(t, []string{"go", "sql"}, got)
}

func TestCleanKeywordsCap(t *testing.T) {
	many := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		many = append(many, string(rune('a'+i)))
	}
	assert.Len(t, CleanKeywords(many), 12)
}

func TestCleanSearchTerm(t *testing.T) {
	assert.Equal(t, "go basics", CleanSearchTerm("  go \t basics \n"))
	assert.Equal(t, "", CleanSearchTerm("   "))
}
