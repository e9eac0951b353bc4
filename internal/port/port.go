// Package port implements the concrete Port variants spec §6 describes:
// in-memory string/bytevector ports for string I/O procedures, standard
// input/output/error, and file ports backed by disk. Every variant
// satisfies value.Port, so eval and package stdlib never need to know
// which concrete kind they're holding.
package port

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/renameio/v2"

	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// ErrClosed is returned by any operation on a port after Close.
var ErrClosed = lerr.NewRuntimeError("port: operation on a closed port")

// bufferPort is the shared implementation behind string and bytevector
// input/output ports: all four are just an in-memory byte buffer read or
// written a rune/byte at a time, differing only in Mode and in how Value
// snapshots (string or bytevector) are extracted at the end.
type bufferPort struct {
	mu        sync.Mutex
	direction value.PortDirection
	mode      value.PortMode
	buf       []byte
	pos       int
	closed    bool
}

func (p *bufferPort) Kind() value.Kind               { return value.KindPort }
func (p *bufferPort) Direction() value.PortDirection { return p.direction }
func (p *bufferPort) Mode() value.PortMode           { return p.mode }

func (p *bufferPort) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *bufferPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *bufferPort) ReadChar() (rune, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrClosed
	}
	if p.pos >= len(p.buf) {
		return 0, io.EOF
	}
	r, size := utf8.DecodeRune(p.buf[p.pos:])
	p.pos += size
	return r, nil
}

func (p *bufferPort) PeekChar() (rune, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrClosed
	}
	if p.pos >= len(p.buf) {
		return 0, io.EOF
	}
	r, _ := utf8.DecodeRune(p.buf[p.pos:])
	return r, nil
}

func (p *bufferPort) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrClosed
	}
	if p.pos >= len(p.buf) {
		return 0, io.EOF
	}
	b := p.buf[p.pos]
	p.pos++
	return b, nil
}

func (p *bufferPort) WriteChar(r rune) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	var enc [utf8.UTFMax]byte
	n := utf8.EncodeRune(enc[:], r)
	p.buf = append(p.buf, enc[:n]...)
	return nil
}

func (p *bufferPort) WriteByte(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.buf = append(p.buf, b)
	return nil
}

func (p *bufferPort) WriteString(s string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.buf = append(p.buf, s...)
	return nil
}

func (p *bufferPort) Flush() error { return nil }

// contents returns a defensive copy of the accumulated bytes, used by
// get-output-string/get-output-bytevector (spec §6).
func (p *bufferPort) contents() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]byte, len(p.buf))
	copy(cp, p.buf)
	return cp
}

// StringOutputPort implements open-output-string: a textual, in-memory,
// write-only port whose accumulated bytes are read back with
// OutputString (bound to get-output-string in package stdlib).
type StringOutputPort struct{ *bufferPort }

func NewStringOutputPort() *StringOutputPort {
	return &StringOutputPort{&bufferPort{direction: value.DirectionOutput, mode: value.ModeTextual}}
}

func (p *StringOutputPort) OutputString() string { return string(p.contents()) }

// StringInputPort implements open-input-string: a textual, read-only port
// over a fixed string.
type StringInputPort struct{ *bufferPort }

func NewStringInputPort(s string) *StringInputPort {
	return &StringInputPort{&bufferPort{direction: value.DirectionInput, mode: value.ModeTextual, buf: []byte(s)}}
}

// BytevectorOutputPort implements open-output-bytevector.
type BytevectorOutputPort struct{ *bufferPort }

func NewBytevectorOutputPort() *BytevectorOutputPort {
	return &BytevectorOutputPort{&bufferPort{direction: value.DirectionOutput, mode: value.ModeBinary}}
}

func (p *BytevectorOutputPort) OutputBytevector() value.Bytevector {
	return value.NewBytevector(p.contents())
}

// BytevectorInputPort implements open-input-bytevector.
type BytevectorInputPort struct{ *bufferPort }

func NewBytevectorInputPort(b []byte) *BytevectorInputPort {
	return &BytevectorInputPort{&bufferPort{direction: value.DirectionInput, mode: value.ModeBinary, buf: b}}
}

// StdPort wraps os.Stdin/Stdout/Stderr as a value.Port: a thin adapter
// that reads through a bufio.Reader and writes straight to the
// underlying writer with no buffering of its own, since the standard
// streams are process-lifetime singletons rather than something a
// dynamic-wind unwind or a GC sweep ever closes.
type StdPort struct {
	mu        sync.Mutex
	direction value.PortDirection
	mode      value.PortMode
	r         *bufio.Reader
	w         io.Writer
}

func NewStdPort(direction value.PortDirection, r io.Reader, w io.Writer) *StdPort {
	p := &StdPort{direction: direction, mode: value.ModeTextual, w: w}
	if r != nil {
		p.r = bufio.NewReader(r)
	}
	return p
}

func (p *StdPort) Kind() value.Kind               { return value.KindPort }
func (p *StdPort) Direction() value.PortDirection { return p.direction }
func (p *StdPort) Mode() value.PortMode           { return p.mode }
func (p *StdPort) Closed() bool                   { return false }
func (p *StdPort) Close() error                   { return nil }

func (p *StdPort) ReadChar() (rune, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.r == nil {
		return 0, ErrClosed
	}
	r, _, err := p.r.ReadRune()
	return r, err
}

func (p *StdPort) PeekChar() (rune, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.r == nil {
		return 0, ErrClosed
	}
	r, _, err := p.r.ReadRune()
	if err != nil {
		return 0, err
	}
	return r, p.r.UnreadRune()
}

func (p *StdPort) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.r == nil {
		return 0, ErrClosed
	}
	return p.r.ReadByte()
}

func (p *StdPort) WriteChar(r rune) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintf(p.w, "%c", r)
	return err
}

func (p *StdPort) WriteByte(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.w.Write([]byte{b})
	return err
}

func (p *StdPort) WriteString(s string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.w, s)
	return err
}

func (p *StdPort) Flush() error {
	if f, ok := p.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

var (
	Stdin  = NewStdPort(value.DirectionInput, os.Stdin, nil)
	Stdout = NewStdPort(value.DirectionOutput, nil, os.Stdout)
	Stderr = NewStdPort(value.DirectionOutput, nil, os.Stderr)
)

// FilePort is an open-input-file/open-output-file port. Reads stream
// directly off the OS file handle (textual ports decode UTF-8 as they
// go); writes accumulate in memory and are only made visible to other
// readers of the same path atomically, on Flush or Close, via
// renameio — the same crash-safety technique file.Save used for the
// editor's buffer, applied here per-port instead of per-save.
type FilePort struct {
	mu        sync.Mutex
	path      string
	direction value.PortDirection
	mode      value.PortMode
	rf        *os.File
	r         *bufio.Reader
	wbuf      strings.Builder
	closed    bool
}

func OpenInputFile(path string, mode value.PortMode) (*FilePort, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lerr.Runtimef("open-input-file: %v", err)
	}
	return &FilePort{path: path, direction: value.DirectionInput, mode: mode, rf: f, r: bufio.NewReader(f)}, nil
}

func OpenOutputFile(path string, mode value.PortMode) (*FilePort, error) {
	return &FilePort{path: path, direction: value.DirectionOutput, mode: mode}, nil
}

func (p *FilePort) Kind() value.Kind               { return value.KindPort }
func (p *FilePort) Direction() value.PortDirection { return p.direction }
func (p *FilePort) Mode() value.PortMode           { return p.mode }

func (p *FilePort) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *FilePort) ReadChar() (rune, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.r == nil {
		return 0, ErrClosed
	}
	r, _, err := p.r.ReadRune()
	return r, err
}

func (p *FilePort) PeekChar() (rune, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.r == nil {
		return 0, ErrClosed
	}
	r, _, err := p.r.ReadRune()
	if err != nil {
		return 0, err
	}
	return r, p.r.UnreadRune()
}

func (p *FilePort) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.r == nil {
		return 0, ErrClosed
	}
	return p.r.ReadByte()
}

func (p *FilePort) WriteChar(r rune) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.wbuf.WriteRune(r)
	return nil
}

func (p *FilePort) WriteByte(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.wbuf.WriteByte(b)
	return nil
}

func (p *FilePort) WriteString(s string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.wbuf.WriteString(s)
	return nil
}

// Flush atomically replaces the target file with everything written so
// far, the way file.Save replaces the editor's buffer on disk: write to
// a temp file in the same directory, fsync, then rename over the target.
func (p *FilePort) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.direction != value.DirectionOutput || p.wbuf.Len() == 0 {
		return nil
	}
	pf, err := renameio.NewPendingFile(p.path, renameio.WithPermissions(0644), renameio.WithExistingPermissions())
	if err != nil {
		return lerr.Runtimef("port: renameio.NewPendingFile: %v", err)
	}
	defer pf.Cleanup()
	if _, err := io.WriteString(pf, p.wbuf.String()); err != nil {
		return lerr.Runtimef("port: write: %v", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return lerr.Runtimef("port: renameio.CloseAtomicallyReplace: %v", err)
	}
	return nil
}

func (p *FilePort) Close() error {
	p.mu.Lock()
	closed := p.closed
	p.closed = true
	rf := p.rf
	p.mu.Unlock()
	if closed {
		return nil
	}
	if rf != nil {
		return rf.Close()
	}
	return p.Flush()
}
