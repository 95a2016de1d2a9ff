package effectchain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Decoder turns the parameters of one node into a stage spec.
type Decoder func(p Params) (StageSpec, error)

// Registry maps stage kind names to their decoders.
type Registry struct {
	decoders map[string]Decoder
}

var errDuplicateStage = errors.New("duplicate stage type")

// ErrUnknownStage is returned when a node references an unregistered stage type.
var ErrUnknownStage = fmt.Errorf("%w: unknown stage type", core.ErrInvalidInput)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register adds a decoder for the given stage type.
func (r *Registry) Register(stageType string, decoder Decoder) error {
	if stageType == "" {
		return errors.New("empty stage type")
	}

	if decoder == nil {
		return errors.New("nil decoder")
	}

	if _, exists := r.decoders[stageType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateStage, stageType)
	}

	r.decoders[stageType] = decoder

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(stageType string, decoder Decoder) {
	err := r.Register(stageType, decoder)
	if err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the decoder for the given stage type, or nil.
func (r *Registry) Lookup(stageType string) Decoder {
	return r.decoders[stageType]
}

// Types returns the registered stage types in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.decoders))
	for k := range r.decoders {
		out = append(out, k)
	}

	slices.Sort(out)

	return out
}

// Decode decodes one node through its registered decoder.
func (r *Registry) Decode(p Params) (StageSpec, error) {
	dec := r.Lookup(p.Type)
	if dec == nil {
		return nil, fmt.Errorf("effectchain: %w: %q", ErrUnknownStage, p.Type)
	}

	return dec(p)
}

var errNilSpec = fmt.Errorf("%w: nil stage spec", core.ErrInvalidInput)
