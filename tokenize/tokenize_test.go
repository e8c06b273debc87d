package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeBasic(t *testing.T) {
	got := Tokenize("Red Running Shoe, size 9!")
	assert.Equal(t, []string{"red", "running", "shoe", "size"}, got)
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	got := Tokenize("a go to it")
	assert.Equal(t, []string{"go", "to", "it"}, got)
}

func TestTokenizeDeduplicates(t *testing.T) {
	got := Tokenize("red red shoe")
	assert.Equal(t, []string{"red", "shoe"}, got)
}

func TestTokenizeStopWords(t *testing.T) {
	got := TokenizeWithOptions("the red shoe", Options{
		StopWords: map[string]struct{}{"the": {}},
	})
	assert.Equal(t, []string{"red", "shoe"}, got)
}

func TestTokenizeMinTokenLength(t *testing.T) {
	got := TokenizeWithOptions("ab abc abcd", Options{MinTokenLength: 4})
	assert.Equal(t, []string{"abcd"}, got)
}

func TestTokenizeUnicodeFolding(t *testing.T) {
	got := Tokenize("CAFÉ")
	assert.Equal(t, []string{"café"}, got)
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   ...   "))
}
