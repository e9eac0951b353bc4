// Package lprint renders value.Value data back to text: R7RS write
// (machine-readable, strings/chars quoted) and display (human-readable,
// strings/chars printed raw), plus a column-aware variant for the REPL
// banner and trace views that right-pads to a target cell width using
// github.com/mattn/go-runewidth — the same library the teacher's
// internal/pkg/display package uses (gcwidth.go) to size grapheme
// clusters by terminal cell width rather than by rune or byte count,
// since a CJK character occupies two cells and a combining mark zero.
package lprint

import (
	"fmt"
	"strconv"
	"strings"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// Write renders v the way R7RS `write` does: strings quoted and escaped,
// characters as #\-literals, symbols printed bare.
func Write(v value.Value) string {
	var sb strings.Builder
	writeValue(&sb, v, true)
	return sb.String()
}

// Display renders v the way R7RS `display` does: strings and characters
// printed as their raw content, everything else identical to Write.
func Display(v value.Value) string {
	var sb strings.Builder
	writeValue(&sb, v, false)
	return sb.String()
}

// Width returns the terminal cell width of s, summing each rune's
// width via runewidth.RuneWidth (gcwidth.go's approach, minus the
// grapheme-cluster segmentation aretext layers on top — lambdust has no
// text-editing viewport to keep cursor math correct against, so a
// per-rune sum is precise enough for REPL/trace alignment).
func Width(s string) int {
	total := 0
	for _, r := range s {
		total += runewidth.RuneWidth(r)
	}
	return total
}

// PadRight returns s followed by enough spaces to reach width cells,
// or s unchanged if it already reaches or exceeds width.
func PadRight(s string, width int) string {
	w := Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func writeValue(sb *strings.Builder, v value.Value, quote bool) {
	switch t := v.(type) {
	case value.Nil:
		sb.WriteString("()")
	case value.Unspecified:
		sb.WriteString("#<unspecified>")
	case value.EOFObject:
		sb.WriteString("#<eof>")
	case value.Bool:
		if t {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case value.Char:
		if quote {
			sb.WriteString(writeChar(rune(t)))
		} else {
			sb.WriteRune(rune(t))
		}
	case value.Str:
		writeString(sb, t.String(), quote)
	case value.MutableString:
		writeString(sb, t.String(), quote)
	case value.Symbol:
		sb.WriteString(t.Name())
	case value.Keyword:
		sb.WriteString("#:")
		sb.WriteString(t.Name)
	case value.Integer:
		sb.WriteString(t.V.String())
	case value.Rational:
		sb.WriteString(t.Num.String())
		sb.WriteByte('/')
		sb.WriteString(t.Den.String())
	case value.Real:
		sb.WriteString(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case value.Complex:
		sb.WriteString(strconv.FormatFloat(t.Re, 'g', -1, 64))
		if t.Im >= 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(strconv.FormatFloat(t.Im, 'g', -1, 64))
		sb.WriteByte('i')
	case value.Pair:
		writePair(sb, t, quote)
	case value.MutablePair:
		writePair(sb, value.Cons(t.Car(), t.Cdr()), quote)
	case value.Vector:
		sb.WriteString("#(")
		for i := 0; i < t.Len(); i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeValue(sb, t.Ref(i), quote)
		}
		sb.WriteByte(')')
	case value.Bytevector:
		sb.WriteString("#u8(")
		bs := t.Bytes()
		for i, b := range bs {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(int(b)))
		}
		sb.WriteByte(')')
	case *value.Procedure:
		fmt.Fprintf(sb, "#<procedure %s>", nameOr(t.Name, "anonymous"))
	case *value.CaseLambda:
		fmt.Fprintf(sb, "#<procedure %s>", nameOr(t.Name, "anonymous"))
	case *value.Primitive:
		fmt.Fprintf(sb, "#<primitive %s>", t.Name)
	case *value.Parameter:
		sb.WriteString("#<parameter>")
	case *value.Record:
		fmt.Fprintf(sb, "#<%s", t.Type.Name)
		for i, fn := range t.Type.FieldNames {
			sb.WriteByte(' ')
			sb.WriteString(fn)
			sb.WriteByte('=')
			writeValue(sb, t.Field(i), quote)
		}
		sb.WriteByte('>')
	case *value.RecordType:
		fmt.Fprintf(sb, "#<record-type %s>", t.Name)
	case *value.ErrorObject:
		fmt.Fprintf(sb, "#<error %s", t.Message)
		for _, ir := range t.Irritants {
			sb.WriteByte(' ')
			writeValue(sb, ir, quote)
		}
		sb.WriteByte('>')
	case value.CharSet:
		sb.WriteString("#<char-set>")
	case value.Port:
		sb.WriteString("#<port>")
	default:
		fmt.Fprintf(sb, "#<object %T>", v)
	}
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func writePair(sb *strings.Builder, p value.Pair, quote bool) {
	sb.WriteByte('(')
	writeValue(sb, p.Car, quote)
	cdr := p.Cdr
	for {
		switch t := cdr.(type) {
		case value.Nil:
			sb.WriteByte(')')
			return
		case value.Pair:
			sb.WriteByte(' ')
			writeValue(sb, t.Car, quote)
			cdr = t.Cdr
		case value.MutablePair:
			sb.WriteByte(' ')
			writeValue(sb, t.Car(), quote)
			cdr = t.Cdr()
		default:
			sb.WriteString(" . ")
			writeValue(sb, cdr, quote)
			sb.WriteByte(')')
			return
		}
	}
}

func writeString(sb *strings.Builder, s string, quote bool) {
	if !quote {
		sb.WriteString(s)
		return
	}
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}

var namedChars = map[rune]string{
	' ': "space", '\n': "newline", '\t': "tab", 0: "null",
	27: "escape", 8: "backspace", 127: "delete", 12: "page", '\r': "return", 7: "alarm",
}

func writeChar(r rune) string {
	if name, ok := namedChars[r]; ok {
		return "#\\" + name
	}
	return "#\\" + string(r)
}
