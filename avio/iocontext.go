// SPDX-License-Identifier: EPL-2.0

package avio

import (
	"fmt"
	"io"

	"github.com/ik5/mediaflow/media"
)

// maxEmptyReads bounds consecutive zero-byte reads before giving up.
const maxEmptyReads = 100

// IOContext is a buffered io.Reader, io.Writer and io.Seeker driven only
// through an Adapter's callbacks, sharing its transfer buffer. This is what
// demuxers and muxers consume.
type IOContext struct {
	a  *Adapter
	cb Callbacks

	buf []byte
	// In read mode buf[:rend] holds stream bytes ending at streamPos and
	// rpos is the next unread byte. In write mode buf[:wn] is pending.
	rpos, rend int
	wn         int
	streamPos  int64
}

// IOContext returns a buffered context over the adapter.
func (a *Adapter) IOContext() *IOContext {
	return &IOContext{a: a, cb: a.cb, buf: a.buf}
}

func (c *IOContext) Seekable() bool { return c.cb.Seek != nil }

// Tell is the logical position.
func (c *IOContext) Tell() int64 {
	if c.wn > 0 {
		return c.streamPos + int64(c.wn)
	}
	return c.streamPos - int64(c.rend-c.rpos)
}

func (c *IOContext) Read(p []byte) (int, error) {
	if c.cb.Read == nil {
		return 0, ErrNotReadable
	}
	if err := c.live(); err != nil {
		return 0, err
	}
	if err := c.Flush(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	if c.rpos == c.rend {
		if err := c.fill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, c.buf[c.rpos:c.rend])
	c.rpos += n
	return n, nil
}

func (c *IOContext) fill() error {
	for range maxEmptyReads {
		n := c.cb.Read(c.buf)
		switch {
		case n == CodeEOF:
			return io.EOF
		case n < 0:
			return c.codeErr("read", int64(n))
		case n > 0:
			c.rpos, c.rend = 0, n
			c.streamPos += int64(n)
			return nil
		}
	}
	return io.ErrNoProgress
}

func (c *IOContext) Write(p []byte) (int, error) {
	if c.cb.Write == nil {
		return 0, ErrNotWritable
	}
	if err := c.live(); err != nil {
		return 0, err
	}
	if err := c.leaveRead(); err != nil {
		return 0, err
	}

	var written int
	for len(p) > 0 {
		n := copy(c.buf[c.wn:], p)
		c.wn += n
		written += n
		p = p[n:]
		if c.wn == len(c.buf) {
			if err := c.Flush(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

// Flush writes out buffered bytes.
func (c *IOContext) Flush() error {
	for off := 0; off < c.wn; {
		n := c.cb.Write(c.buf[off:c.wn])
		if n < 0 {
			c.wn = copy(c.buf, c.buf[off:c.wn])
			return c.codeErr("write", int64(n))
		}
		if n == 0 {
			c.wn = copy(c.buf, c.buf[off:c.wn])
			return io.ErrShortWrite
		}
		off += n
		c.streamPos += int64(n)
	}
	c.wn = 0
	return nil
}

func (c *IOContext) Seek(offset int64, whence int) (int64, error) {
	if c.cb.Seek == nil {
		return 0, ErrNotSeekable
	}
	if err := c.live(); err != nil {
		return 0, err
	}
	if err := c.Flush(); err != nil {
		return 0, err
	}

	var target int64
	switch Whence(whence) {
	case SeekStart:
		target = offset
	case SeekCurrent:
		target = c.Tell() + offset
	case SeekEnd:
		pos := c.cb.Seek(offset, SeekEnd)
		if pos < 0 {
			return 0, c.codeErr("seek", pos)
		}
		c.streamPos, c.rpos, c.rend = pos, 0, 0
		return pos, nil
	default:
		return 0, fmt.Errorf("%w: whence %d", media.ErrInvalidConfiguration, whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("%w: negative position %d", media.ErrInvalidConfiguration, target)
	}

	// Stay inside the read buffer when possible.
	if start := c.streamPos - int64(c.rend); c.rend > 0 && target >= start && target <= c.streamPos {
		c.rpos = int(target - start)
		return target, nil
	}

	pos := c.cb.Seek(target, SeekStart)
	if pos < 0 {
		return 0, c.codeErr("seek", pos)
	}
	c.streamPos, c.rpos, c.rend = pos, 0, 0
	return pos, nil
}

// Size returns the stream length.
func (c *IOContext) Size() (int64, error) {
	if c.cb.Seek == nil {
		return 0, ErrNotSeekable
	}
	if err := c.live(); err != nil {
		return 0, err
	}
	if err := c.Flush(); err != nil {
		return 0, err
	}
	n := c.cb.Seek(0, SeekSize)
	if n < 0 {
		return 0, c.codeErr("size", n)
	}
	return n, nil
}

// leaveRead drops the read buffer, moving the stream back to the logical
// position if bytes were read ahead.
func (c *IOContext) leaveRead() error {
	if c.rend == 0 {
		return nil
	}
	if c.rpos < c.rend {
		if c.cb.Seek == nil {
			return fmt.Errorf("%w: cannot write after buffered read", ErrNotSeekable)
		}
		target := c.Tell()
		if pos := c.cb.Seek(target, SeekStart); pos < 0 {
			return c.codeErr("seek", pos)
		}
		c.streamPos = target
	}
	c.rpos, c.rend = 0, 0
	return nil
}

func (c *IOContext) live() error {
	if c.a.closed {
		return ErrClosed
	}
	return nil
}

func (c *IOContext) codeErr(op string, code int64) error {
	if err := c.a.Err(); err != nil {
		return fmt.Errorf("%w: %s (code %d): %w", media.ErrIOFailure, op, code, err)
	}
	return fmt.Errorf("%w: %s (code %d)", media.ErrIOFailure, op, code)
}
