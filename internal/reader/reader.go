package reader

import (
	"strconv"

	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/numeric"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// Reader parses a fixed source string into a sequence of value.Value
// datums, one read call at a time — the shape the REPL needs to read
// one top-level form without blocking for the rest of the buffer.
type Reader struct {
	lex *lexer
	tok token
	err error
}

// New returns a Reader over src, with the first token already primed.
func New(src string) *Reader {
	r := &Reader{lex: newLexer(src)}
	r.advance()
	return r
}

// ReadAll parses every top-level datum in src.
func ReadAll(src string) ([]value.Value, error) {
	r := New(src)
	var out []value.Value
	for {
		v, ok, err := r.Read()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

func (r *Reader) advance() {
	if r.err != nil {
		return
	}
	r.tok, r.err = r.lex.nextToken()
}

// Read parses the next top-level datum. ok is false at end of input.
func (r *Reader) Read() (value.Value, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	if r.tok.kind == tokEOF {
		return nil, false, nil
	}
	v, err := r.readDatum()
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *Reader) readDatum() (value.Value, error) {
	tok := r.tok
	switch tok.kind {
	case tokEOF:
		return nil, lerr.NewRuntimeError("reader: unexpected end of input")

	case tokLParen:
		r.advance()
		return r.readList()

	case tokRParen:
		return nil, lerr.NewRuntimeError("reader: unexpected )")

	case tokQuote:
		r.advance()
		return r.readWrapped("quote")

	case tokQuasiquote:
		r.advance()
		return r.readWrapped("quasiquote")

	case tokUnquote:
		r.advance()
		return r.readWrapped("unquote")

	case tokUnquoteSplicing:
		r.advance()
		return r.readWrapped("unquote-splicing")

	case tokVectorOpen:
		r.advance()
		items, err := r.readUntilRParen()
		if err != nil {
			return nil, err
		}
		return value.NewVector(items), nil

	case tokBytevectorOpen:
		r.advance()
		items, err := r.readUntilRParen()
		if err != nil {
			return nil, err
		}
		bytes := make([]byte, len(items))
		for i, it := range items {
			n, ok := it.(value.Integer)
			if !ok || !n.V.IsInt64() {
				return nil, lerr.NewRuntimeError("reader: bytevector element must be an exact integer")
			}
			bytes[i] = byte(n.V.Int64())
		}
		return value.NewBytevector(bytes), nil

	case tokString:
		r.advance()
		return value.NewStr(tok.text), nil

	case tokAtom:
		r.advance()
		return atomValue(tok.text)

	default:
		return nil, lerr.NewRuntimeError("reader: unrecognized token")
	}
}

func (r *Reader) readWrapped(head string) (value.Value, error) {
	inner, err := r.readDatum()
	if err != nil {
		return nil, err
	}
	return value.Cons(value.NewSymbol(head), value.Cons(inner, value.TheNil)), nil
}

// readList reads datums up to the matching ')', handling an optional
// dotted tail (". datum )").
func (r *Reader) readList() (value.Value, error) {
	var items []value.Value
	for {
		if r.tok.kind == tokRParen {
			r.advance()
			return value.SliceToList(items), nil
		}
		if r.tok.kind == tokEOF {
			return nil, lerr.NewRuntimeError("reader: unterminated list")
		}
		if r.tok.kind == tokAtom && r.tok.text == "." {
			r.advance()
			tail, err := r.readDatum()
			if err != nil {
				return nil, err
			}
			if r.tok.kind != tokRParen {
				return nil, lerr.NewRuntimeError("reader: malformed dotted list")
			}
			r.advance()
			result := tail
			for i := len(items) - 1; i >= 0; i-- {
				result = value.Cons(items[i], result)
			}
			return result, nil
		}
		v, err := r.readDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (r *Reader) readUntilRParen() ([]value.Value, error) {
	var items []value.Value
	for {
		if r.tok.kind == tokRParen {
			r.advance()
			return items, nil
		}
		if r.tok.kind == tokEOF {
			return nil, lerr.NewRuntimeError("reader: unterminated vector literal")
		}
		v, err := r.readDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func atomValue(text string) (value.Value, error) {
	switch text {
	case "#t", "#true":
		return value.Bool(true), nil
	case "#f", "#false":
		return value.Bool(false), nil
	case "#!default", "#!unspecific":
		return value.TheUnspecified, nil
	case "#!eof":
		return value.TheEOF, nil
	}
	if r, ok := charLiteral(text); ok {
		return r, nil
	}
	if looksNumeric(text) {
		if v, err := numeric.Parse(text); err == nil {
			return v, nil
		}
	}
	return value.NewSymbol(text), nil
}

func charLiteral(text string) (value.Value, bool) {
	if len(text) < 2 || text[0] != '#' || text[1] != '\\' {
		return nil, false
	}
	name := text[2:]
	named := map[string]rune{
		"space": ' ', "newline": '\n', "tab": '\t', "nul": 0, "null": 0,
		"altmode": 27, "backspace": 8, "delete": 127, "escape": 27,
		"linefeed": '\n', "page": 12, "return": '\r', "rubout": 127,
		"alarm": 7,
	}
	if r, ok := named[name]; ok {
		return value.Char(r), true
	}
	runes := []rune(name)
	if len(runes) == 1 {
		return value.Char(runes[0]), true
	}
	if len(runes) > 1 && (runes[0] == 'x' || runes[0] == 'X') {
		if n, err := strconv.ParseInt(string(runes[1:]), 16, 32); err == nil {
			return value.Char(rune(n)), true
		}
	}
	return nil, false
}

func looksNumeric(text string) bool {
	if text == "" {
		return false
	}
	if text == "+" || text == "-" || text == "..." || text == "." {
		return false
	}
	r := text[0]
	if r == '#' {
		return true
	}
	if r >= '0' && r <= '9' {
		return true
	}
	if (r == '+' || r == '-' || r == '.') && len(text) > 1 {
		return true
	}
	return false
}
