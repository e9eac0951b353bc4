package lprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

func TestWriteQuotesStringsAndEscapes(t *testing.T) {
	s := value.NewStr("a\"b\\c\n")
	assert.Equal(t, `"a\"b\\c\n"`, Write(s))
}

func TestDisplayPrintsStringsRaw(t *testing.T) {
	s := value.NewStr("hello")
	assert.Equal(t, "hello", Display(s))
}

func TestWriteCharNamedAndLiteral(t *testing.T) {
	assert.Equal(t, `#\space`, Write(value.Char(' ')))
	assert.Equal(t, `#\a`, Write(value.Char('a')))
}

func TestWritePairAndImproperList(t *testing.T) {
	lst := value.SliceToList([]value.Value{value.NewInteger(1), value.NewInteger(2)})
	assert.Equal(t, "(1 2)", Write(lst))

	improper := value.Cons(value.NewInteger(1), value.NewInteger(2))
	assert.Equal(t, "(1 . 2)", Write(improper))
}

func TestWriteVectorAndBytevector(t *testing.T) {
	v := value.NewVector([]value.Value{value.NewInteger(1), value.NewInteger(2)})
	assert.Equal(t, "#(1 2)", Write(v))

	bv := value.NewBytevector([]byte{1, 2, 3})
	assert.Equal(t, "#u8(1 2 3)", Write(bv))
}

func TestWidthAndPadRight(t *testing.T) {
	assert.Equal(t, 5, Width("hello"))
	assert.Equal(t, "hi   ", PadRight("hi", 5))
	assert.Equal(t, "hello", PadRight("hello", 2))
}
