// SPDX-License-Identifier: EPL-2.0

package avio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

// DefaultBufferSize is the transfer buffer size used when Config leaves it
// unset.
const DefaultBufferSize = 32 * 1024

// Whence selects the reference point of a seek callback.
type Whence int

const (
	SeekStart   Whence = io.SeekStart
	SeekCurrent Whence = io.SeekCurrent
	SeekEnd     Whence = io.SeekEnd
	// SeekSize asks for the stream length without moving the cursor.
	SeekSize Whence = 0x10000
)

func (w Whence) String() string {
	switch w {
	case SeekStart:
		return "start"
	case SeekCurrent:
		return "current"
	case SeekEnd:
		return "end"
	case SeekSize:
		return "size"
	default:
		return fmt.Sprintf("whence(%d)", int(w))
	}
}

type Config struct {
	// BufferSize is the transfer buffer size. Zero selects
	// DefaultBufferSize.
	BufferSize int
	Logger     *log.Logger
}

// Callbacks are the functions a container parser drives. A nil field means
// the stream does not support the operation.
//
// Read returns the number of bytes read, CodeEOF at end of stream or a
// negative code on failure. Write returns the number of bytes written or a
// negative code. Seek returns the new position, or the length for SeekSize,
// or a negative code.
type Callbacks struct {
	Read  func(buf []byte) int
	Write func(buf []byte) int
	Seek  func(offset int64, whence Whence) int64
}

type sizer interface{ Size() int64 }

type stater interface {
	Stat() (fs.FileInfo, error)
}

// Adapter exposes a Go stream through Callbacks. Callbacks never panic:
// failures, including panics inside the stream, become negative codes and
// the cause is kept for Err.
//
// An Adapter is not safe for concurrent use.
type Adapter struct {
	r io.Reader
	w io.Writer
	s io.Seeker
	c io.Closer

	stream any
	buf    []byte
	cb     Callbacks
	log    *log.Logger

	err     error
	closed  bool
	cleanup runtime.Cleanup
}

// NewAdapter wraps stream, which must implement io.Reader, io.Writer or
// both. io.Seeker and io.Closer are used when present. The adapter owns the
// stream and closes it on Close.
func NewAdapter(stream any, cfg Config) (*Adapter, error) {
	if cfg.BufferSize < 0 {
		return nil, media.Invalidf("avio buffer size %d", cfg.BufferSize)
	}
	size := cfg.BufferSize
	if size == 0 {
		size = DefaultBufferSize
	}

	a := &Adapter{stream: stream, log: logx.Component(cfg.Logger, "avio")}
	a.r, _ = stream.(io.Reader)
	a.w, _ = stream.(io.Writer)
	a.s, _ = stream.(io.Seeker)
	a.c, _ = stream.(io.Closer)
	if a.r == nil && a.w == nil {
		return nil, media.Invalidf("avio stream %T is neither a reader nor a writer", stream)
	}

	if a.r != nil {
		a.cb.Read = a.read
	}
	if a.w != nil {
		a.cb.Write = a.write
	}
	if a.s != nil {
		a.cb.Seek = a.seek
	}
	a.buf = make([]byte, size)

	if a.c != nil {
		a.cleanup = runtime.AddCleanup(a, func(c io.Closer) { _ = c.Close() }, a.c)
	}

	a.log.Debug("opened", "stream", fmt.Sprintf("%T", stream), "read", a.CanRead(),
		"write", a.CanWrite(), "seek", a.Seekable(), "buffer", size)
	return a, nil
}

func (a *Adapter) Callbacks() Callbacks { return a.cb }
func (a *Adapter) CanRead() bool        { return a.cb.Read != nil }
func (a *Adapter) CanWrite() bool       { return a.cb.Write != nil }

// Seekable is false when the stream has no Seek; parsers must then avoid
// seeking instead of failing on first use.
func (a *Adapter) Seekable() bool { return a.cb.Seek != nil }

// BufferSize is the transfer buffer size.
func (a *Adapter) BufferSize() int { return len(a.buf) }

// Err returns the last error a callback turned into a negative code.
func (a *Adapter) Err() error { return a.err }

// Close releases the transfer buffer and closes the stream. Only the first
// call has an effect.
func (a *Adapter) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.buf = nil
	if a.c != nil {
		a.cleanup.Stop()
		if err := a.c.Close(); err != nil {
			return fmt.Errorf("%w: close: %w", media.ErrIOFailure, err)
		}
	}
	return nil
}

func (a *Adapter) fail(op string, err error, code int64) int64 {
	a.err = fmt.Errorf("%s: %w", op, err)
	a.log.Debug("callback failed", "op", op, "code", code, "err", err)
	return code
}

// guard converts a panic in a callback into CodeIO.
func guard[T int | int64](a *Adapter, op string, ret *T) {
	if r := recover(); r != nil {
		a.err = fmt.Errorf("%s: panic: %v", op, r)
		a.log.Warn("callback panicked", "op", op, "panic", r)
		*ret = CodeIO
	}
}

func (a *Adapter) read(buf []byte) (n int) {
	defer guard(a, "read", &n)
	if a.closed {
		return int(a.fail("read", ErrClosed, CodeInvalid))
	}

	n, err := a.r.Read(buf)
	switch {
	case n > 0:
		return n
	case errors.Is(err, io.EOF):
		return CodeEOF
	case err != nil:
		return int(a.fail("read", err, CodeIO))
	}
	return 0
}

func (a *Adapter) write(buf []byte) (n int) {
	defer guard(a, "write", &n)
	if a.closed {
		return int(a.fail("write", ErrClosed, CodeInvalid))
	}

	n, err := a.w.Write(buf)
	if err != nil {
		return int(a.fail("write", err, CodeIO))
	}
	return n
}

func (a *Adapter) seek(offset int64, whence Whence) (pos int64) {
	defer guard(a, "seek", &pos)
	if a.closed {
		return a.fail("seek", ErrClosed, CodeInvalid)
	}

	switch whence {
	case SeekSize:
		return a.size()
	case SeekStart, SeekCurrent, SeekEnd:
		p, err := a.s.Seek(offset, int(whence))
		if err != nil {
			return a.fail("seek", err, CodeIO)
		}
		return p
	default:
		return a.fail("seek", fmt.Errorf("unknown whence %d", int(whence)), CodeInvalid)
	}
}

// size reports the stream length, preferring methods that do not move the
// cursor.
func (a *Adapter) size() int64 {
	if s, ok := a.stream.(sizer); ok {
		if n := s.Size(); n >= 0 {
			return n
		}
	}
	if s, ok := a.stream.(stater); ok {
		if fi, err := s.Stat(); err == nil && fi.Mode().IsRegular() {
			return fi.Size()
		}
	}

	cur, err := a.s.Seek(0, io.SeekCurrent)
	if err != nil {
		return a.fail("size", err, CodeUnknownSize)
	}
	end, err := a.s.Seek(0, io.SeekEnd)
	if err != nil {
		return a.fail("size", err, CodeUnknownSize)
	}
	if _, err := a.s.Seek(cur, io.SeekStart); err != nil {
		return a.fail("size", err, CodeIO)
	}
	return end
}
