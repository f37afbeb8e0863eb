// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"iter"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

// State of a codec session.
type State int

const (
	// StateIdle accepts the next input.
	StateIdle State = iota
	// StateSending holds input whose output has not been fully received.
	StateSending
	// StateDraining has seen the flush signal and yields remaining output.
	StateDraining
	// StateEnded is terminal.
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateDraining:
		return "draining"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// SessionConfig is shared by decode and encode sessions.
type SessionConfig struct {
	Logger *log.Logger
}

// session runs the send/receive protocol over a backend. In and Out are
// pointer types; a nil In is the flush signal.
type session[In, Out any] struct {
	op      string
	state   State
	send    func(In) error
	receive func() (Out, error)
	release func() error
	log     *log.Logger

	sent, received int
	closed         bool
	cleanup        runtime.Cleanup
}

func newSession[In, Out any](op string, cfg SessionConfig, send func(In) error, receive func() (Out, error), release func() error) *session[In, Out] {
	return &session[In, Out]{
		op:      op,
		send:    send,
		receive: receive,
		release: release,
		log:     logx.Component(cfg.Logger, op),
	}
}

func (s *session[In, Out]) doSend(in In, flush bool) error {
	switch s.state {
	case StateEnded:
		return media.ErrSessionClosed
	case StateSending:
		return ErrReceivePending
	case StateDraining:
		return ErrDraining
	}

	if err := s.send(in); err != nil && !(flush && errors.Is(err, ErrEOF)) {
		s.end()
		return backendError(s.op+": send", err)
	}

	if flush {
		s.state = StateDraining
		s.log.Debug("draining", "sent", s.sent, "received", s.received)
		return nil
	}
	s.sent++
	s.state = StateSending
	return nil
}

func (s *session[In, Out]) doReceive() Result[Out] {
	switch s.state {
	case StateEnded:
		return Failed[Out](media.ErrSessionClosed)
	case StateIdle:
		return NeedInput[Out]()
	}

	out, err := s.receive()
	switch {
	case err == nil:
		s.received++
		return Output(out)
	case errors.Is(err, ErrAgain):
		if s.state == StateDraining {
			s.log.Warn("backend asked for input while draining, treating as end of stream")
			s.end()
			return EndOfStream[Out]()
		}
		s.state = StateIdle
		return NeedInput[Out]()
	case errors.Is(err, ErrEOF):
		s.end()
		return EndOfStream[Out]()
	default:
		s.end()
		return Failed[Out](backendError(s.op+": receive", err))
	}
}

// run sends in and yields every output until the session needs input or
// ends.
func (s *session[In, Out]) run(in In, flush bool) iter.Seq2[Out, error] {
	return func(yield func(Out, error) bool) {
		var zero Out
		if err := s.doSend(in, flush); err != nil {
			yield(zero, err)
			return
		}
		for {
			r := s.doReceive()
			switch r.Status {
			case StatusOutput:
				if !yield(r.Value, nil) {
					return
				}
			case StatusError:
				yield(zero, r.Err)
				return
			default:
				return
			}
		}
	}
}

func (s *session[In, Out]) end() {
	if s.state != StateEnded {
		s.log.Debug("ended", "sent", s.sent, "received", s.received)
	}
	s.state = StateEnded
}

func (s *session[In, Out]) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cleanup.Stop()
	s.end()
	return s.release()
}

func backendError(op string, err error) error {
	var ce *media.CodecError
	if errors.As(err, &ce) {
		return err
	}
	code := media.CodeUnknown
	var c Coder
	if errors.As(err, &c) {
		code = c.Code()
	}
	return &media.CodecError{Op: op, Code: code, Err: err}
}

// DecodeSession drives a Decoder through the send/receive protocol.
//
// Send one packet, then Receive until NeedInput before sending the next.
// Send(nil) starts draining; Receive then yields the remaining frames and
// finally EndOfStream. A DecodeSession is not safe for concurrent use.
type DecodeSession struct {
	s      *session[*media.Packet, *media.Frame]
	params Parameters
}

// NewDecodeSession wraps dec. The session owns dec and closes it.
func NewDecodeSession(dec Decoder, params Parameters, cfg SessionConfig) *DecodeSession {
	ds := &DecodeSession{
		s:      newSession("decode", cfg, dec.SendPacket, dec.ReceiveFrame, dec.Close),
		params: params,
	}
	ds.s.cleanup = runtime.AddCleanup(ds, func(d Decoder) { _ = d.Close() }, dec)
	return ds
}

func (d *DecodeSession) Parameters() Parameters { return d.params }
func (d *DecodeSession) State() State           { return d.s.state }

// Send hands pkt to the decoder. A nil pkt flushes.
func (d *DecodeSession) Send(pkt *media.Packet) error { return d.s.doSend(pkt, pkt == nil) }

// Receive pulls the next decoded frame.
func (d *DecodeSession) Receive() Result[*media.Frame] { return d.s.doReceive() }

// Decode sends pkt and yields the frames it produces. Stopping early leaves
// the session in StateSending; call Receive to collect the rest.
func (d *DecodeSession) Decode(pkt *media.Packet) iter.Seq2[*media.Frame, error] {
	return d.s.run(pkt, pkt == nil)
}

// Flush drains the decoder and yields the remaining frames.
func (d *DecodeSession) Flush() iter.Seq2[*media.Frame, error] { return d.s.run(nil, true) }

// Close releases the decoder. It is safe to call more than once.
func (d *DecodeSession) Close() error { return d.s.close() }

// EncodeSession drives an Encoder through the send/receive protocol. Video
// frames lose their caption side data before they reach the encoder.
type EncodeSession struct {
	s      *session[*media.Frame, *media.Packet]
	params Parameters
}

// NewEncodeSession wraps enc. The session owns enc and closes it.
func NewEncodeSession(enc Encoder, params Parameters, cfg SessionConfig) *EncodeSession {
	es := &EncodeSession{params: params}
	es.s = newSession("encode", cfg, es.sendFunc(enc), enc.ReceivePacket, enc.Close)
	es.s.cleanup = runtime.AddCleanup(es, func(e Encoder) { _ = e.Close() }, enc)
	return es
}

func (e *EncodeSession) sendFunc(enc Encoder) func(*media.Frame) error {
	return func(f *media.Frame) error {
		if f != nil && f.IsVideo() {
			if n := StripCaptions(f); n > 0 {
				e.s.log.Debug("stripped caption side data", "entries", n, "pts", f.PTS)
			}
		}
		return enc.SendFrame(f)
	}
}

func (e *EncodeSession) Parameters() Parameters { return e.params }
func (e *EncodeSession) State() State           { return e.s.state }

// Send hands frame to the encoder. A nil frame flushes.
func (e *EncodeSession) Send(frame *media.Frame) error { return e.s.doSend(frame, frame == nil) }

// Receive pulls the next encoded packet.
func (e *EncodeSession) Receive() Result[*media.Packet] { return e.s.doReceive() }

// Encode sends frame and yields the packets it produces.
func (e *EncodeSession) Encode(frame *media.Frame) iter.Seq2[*media.Packet, error] {
	return e.s.run(frame, frame == nil)
}

// Flush drains the encoder and yields the remaining packets.
func (e *EncodeSession) Flush() iter.Seq2[*media.Packet, error] { return e.s.run(nil, true) }

// Close releases the encoder. It is safe to call more than once.
func (e *EncodeSession) Close() error { return e.s.close() }
