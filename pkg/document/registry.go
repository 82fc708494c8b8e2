package document

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/yesoreyeram/osai/pkg/nodes"
	"github.com/yesoreyeram/osai/pkg/types"
)

// Factory builds an AudioNode from a document node's params object. A nil
// params message means the node was declared without parameters.
type Factory[C any] func(params json.RawMessage) (types.AudioNode[C], error)

// Registry maps document node type strings to factories.
type Registry[C any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[C]
}

// NewRegistry creates an empty registry.
func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{factories: make(map[string]Factory[C])}
}

// Register adds a factory for a node type. Registering the same type twice
// is an error so a typo cannot silently shadow a built-in.
func (r *Registry[C]) Register(nodeType string, factory Factory[C]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[nodeType]; exists {
		return fmt.Errorf("%q: %w", nodeType, ErrFactoryAlreadyRegistered)
	}
	r.factories[nodeType] = factory
	return nil
}

// Lookup returns the factory for a node type.
func (r *Registry[C]) Lookup(nodeType string) (Factory[C], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[nodeType]
	return factory, ok
}

// Types returns the registered node type names.
func (r *Registry[C]) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	return out
}

type beepParams struct {
	FreqHz  *float32 `json:"freq_hz"`
	GainDB  *float32 `json:"gain_db"`
	Enabled *bool    `json:"enabled"`
}

type volumeParams struct {
	GainDB *float32 `json:"gain_db"`
}

// DefaultRegistry returns a registry covering the built-in node library:
// "beep", "identity", "volume", and "sum".
func DefaultRegistry[C any]() *Registry[C] {
	r := NewRegistry[C]()

	_ = r.Register("beep", func(params json.RawMessage) (types.AudioNode[C], error) {
		p := beepParams{}
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		freq := float32(440)
		gain := float32(-6)
		enabled := false
		if p.FreqHz != nil {
			freq = *p.FreqHz
		}
		if p.GainDB != nil {
			gain = *p.GainDB
		}
		if p.Enabled != nil {
			enabled = *p.Enabled
		}
		return nodes.NewBeep[C](freq, gain, enabled), nil
	})

	_ = r.Register("identity", func(params json.RawMessage) (types.AudioNode[C], error) {
		return nodes.NewIdentity[C](), nil
	})

	_ = r.Register("volume", func(params json.RawMessage) (types.AudioNode[C], error) {
		p := volumeParams{}
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		gain := float32(0)
		if p.GainDB != nil {
			gain = *p.GainDB
		}
		return nodes.NewVolume[C](gain), nil
	})

	_ = r.Register("sum", func(params json.RawMessage) (types.AudioNode[C], error) {
		return nodes.NewSum[C](), nil
	})

	return r
}

func unmarshalParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
