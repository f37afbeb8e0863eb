// SPDX-License-Identifier: EPL-2.0

package codec

import "github.com/ik5/mediaflow/media"

// Decoder is a codec backend turning packets into frames. A nil packet
// starts draining. ReceiveFrame returns ErrAgain when it needs the next
// packet and ErrEOF when drained. Returned frames belong to the caller.
type Decoder interface {
	SendPacket(pkt *media.Packet) error
	ReceiveFrame() (*media.Frame, error)
	Close() error
}

// Encoder is the reverse of Decoder.
type Encoder interface {
	SendFrame(frame *media.Frame) error
	ReceivePacket() (*media.Packet, error)
	Close() error
}
