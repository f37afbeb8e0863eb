// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/mediaflow/internal/registry"
)

// Factory creates backends for one codec. Either function may be nil.
type Factory struct {
	NewDecoder func(params Parameters) (Decoder, error)
	NewEncoder func(params Parameters) (Encoder, error)
}

// Registry maps codec names such as "pcm_s16le" to factories.
type Registry struct {
	r *registry.Registry[Factory]
}

func NewRegistry() *Registry {
	return &Registry{r: registry.New[Factory]()}
}

func (r *Registry) Register(name string, f Factory) { r.r.Register(name, f) }

func (r *Registry) Get(name string) (Factory, bool) { return r.r.Get(name) }

// Names lists the registered codecs.
func (r *Registry) Names() []string { return r.r.Names() }

// NewDecodeSession validates params and opens a decode session for
// params.CodecName.
func (r *Registry) NewDecodeSession(params Parameters, cfg SessionConfig) (*DecodeSession, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	f, ok := r.Get(params.CodecName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, params.CodecName)
	}
	if f.NewDecoder == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDecoder, params.CodecName)
	}

	dec, err := f.NewDecoder(params)
	if err != nil {
		return nil, fmt.Errorf("open decoder %s: %w", params.CodecName, err)
	}
	return NewDecodeSession(dec, params, cfg), nil
}

// NewEncodeSession validates params and opens an encode session for
// params.CodecName.
func (r *Registry) NewEncodeSession(params Parameters, cfg SessionConfig) (*EncodeSession, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	f, ok := r.Get(params.CodecName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, params.CodecName)
	}
	if f.NewEncoder == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEncoder, params.CodecName)
	}

	enc, err := f.NewEncoder(params)
	if err != nil {
		return nil, fmt.Errorf("open encoder %s: %w", params.CodecName, err)
	}
	return NewEncodeSession(enc, params, cfg), nil
}
