// SPDX-License-Identifier: EPL-2.0

// Package pcm implements raw PCM decoders and encoders.
//
// Decoded frames use the packed sample format matching the codec, in
// little-endian byte order, so pcm_s16be decodes to s16.
package pcm

import (
	"fmt"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/media"
)

// Codec describes one PCM variant.
type Codec struct {
	Name      string
	Format    media.SampleFormat
	BigEndian bool
}

var codecs = []Codec{
	{Name: "pcm_u8", Format: media.SampleFmtU8},
	{Name: "pcm_s16le", Format: media.SampleFmtS16},
	{Name: "pcm_s16be", Format: media.SampleFmtS16, BigEndian: true},
	{Name: "pcm_s32le", Format: media.SampleFmtS32},
	{Name: "pcm_f32le", Format: media.SampleFmtFLT},
	{Name: "pcm_f64le", Format: media.SampleFmtDBL},
}

// Codecs lists the supported variants.
func Codecs() []Codec { return append([]Codec(nil), codecs...) }

// Lookup finds a variant by codec name.
func Lookup(name string) (Codec, bool) {
	for _, c := range codecs {
		if c.Name == name {
			return c, true
		}
	}
	return Codec{}, false
}

// NameFor returns the little-endian codec name for a sample format.
func NameFor(format media.SampleFormat) (string, bool) {
	for _, c := range codecs {
		if c.Format == format.Packed() && !c.BigEndian {
			return c.Name, true
		}
	}
	return "", false
}

// Register adds every PCM variant to r.
func Register(r *codec.Registry) {
	for _, c := range codecs {
		r.Register(c.Name, codec.Factory{
			NewDecoder: func(p codec.Parameters) (codec.Decoder, error) { return NewDecoder(p) },
			NewEncoder: func(p codec.Parameters) (codec.Encoder, error) { return NewEncoder(p) },
		})
	}
}

// lookupParams returns the variant for p and p with its defaults filled in.
func lookupParams(p codec.Parameters) (Codec, codec.Parameters, error) {
	if err := p.Validate(); err != nil {
		return Codec{}, p, err
	}
	if p.MediaType != media.MediaTypeAudio {
		return Codec{}, p, media.Invalidf("%s is an audio codec", p.CodecName)
	}
	c, ok := Lookup(p.CodecName)
	if !ok {
		return Codec{}, p, fmt.Errorf("%w: %s", codec.ErrUnknownCodec, p.CodecName)
	}
	return c, p, nil
}

// swap reverses the byte order of each sample in b in place.
func swap(b []byte, size int) {
	if size < 2 {
		return
	}
	for i := 0; i+size <= len(b); i += size {
		for l, r := i, i+size-1; l < r; l, r = l+1, r-1 {
			b[l], b[r] = b[r], b[l]
		}
	}
}
