// SPDX-License-Identifier: EPL-2.0

package media

import "slices"

// PacketFlags annotate a packet.
type PacketFlags uint32

const (
	// PacketKey marks a packet that can be decoded without prior packets.
	PacketKey PacketFlags = 1 << iota
)

// Packet is one compressed unit plus timing metadata.
type Packet struct {
	Data        []byte
	PTS         int64
	DTS         int64
	Duration    int64
	StreamIndex int
	Flags       PacketFlags
}

// Clone returns a deep copy of p.
func (p *Packet) Clone() *Packet {
	c := *p
	c.Data = slices.Clone(p.Data)
	return &c
}

// Unref releases the payload after the consumer is done with it.
func (p *Packet) Unref() {
	p.Data = nil
	p.PTS, p.DTS, p.Duration = 0, 0, 0
	p.Flags = 0
}
