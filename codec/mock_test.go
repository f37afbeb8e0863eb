// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"

	"github.com/ik5/mediaflow/media"
)

type codeErr int

func (c codeErr) Error() string { return "backend failure" }
func (c codeErr) Code() int     { return int(c) }

// mockDecoder emits perPacket frames for every packet and tail frames when
// flushed.
type mockDecoder struct {
	perPacket int
	tail      int

	againOnDrain bool
	failAfter    int // fail ReceiveFrame after this many frames when > 0

	queued   int
	flushed  bool
	frames   int
	receives int
	closes   int
	packets  []*media.Packet
}

func (m *mockDecoder) SendPacket(pkt *media.Packet) error {
	if pkt == nil {
		m.flushed = true
		m.queued += m.tail
		return nil
	}
	m.packets = append(m.packets, pkt)
	m.queued += m.perPacket
	return nil
}

func (m *mockDecoder) ReceiveFrame() (*media.Frame, error) {
	m.receives++
	if m.failAfter > 0 && m.frames == m.failAfter {
		return nil, codeErr(-42)
	}
	if m.queued == 0 {
		if m.flushed && !m.againOnDrain {
			return nil, ErrEOF
		}
		return nil, ErrAgain
	}
	m.queued--
	m.frames++
	return &media.Frame{Type: media.MediaTypeAudio, PTS: int64(m.frames)}, nil
}

func (m *mockDecoder) Close() error {
	m.closes++
	return nil
}

// mockEncoder records frames and emits one packet per frame.
type mockEncoder struct {
	frames  []*media.Frame
	pending int
	flushed bool
	closes  int
	sendErr error
}

func (m *mockEncoder) SendFrame(f *media.Frame) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	if f == nil {
		m.flushed = true
		return nil
	}
	m.frames = append(m.frames, f)
	m.pending++
	return nil
}

func (m *mockEncoder) ReceivePacket() (*media.Packet, error) {
	if m.pending > 0 {
		m.pending--
		return &media.Packet{Data: []byte{1}}, nil
	}
	if m.flushed {
		return nil, ErrEOF
	}
	return nil, ErrAgain
}

func (m *mockEncoder) Close() error {
	m.closes++
	return nil
}

var errMockOpen = errors.New("mock open failure")
