package strval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpcaseDowncaseFoldcase(t *testing.T) {
	assert.Equal(t, "HELLO", Upcase("hello"))
	assert.Equal(t, "hello", Downcase("HELLO"))
	assert.Equal(t, "hello", Foldcase("HELLO"))
}

func TestNFCComposesCombiningMark(t *testing.T) {
	decomposed := string([]rune{'e', 0x0301}) // e + combining acute accent
	composed := NFC(decomposed)
	assert.Equal(t, string([]rune{0x00E9}), composed) // precomposed é
	assert.NotEqual(t, decomposed, composed)
}
