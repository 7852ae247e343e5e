package resource

import (
	"sort"
	"strings"
)

// BlockState is the identity of one block: a block location plus its
// property set. The properties are stored as a canonical interned string
// of "key=value" pairs sorted by key, so two states built from the same
// properties in any insertion order compare equal, and BlockState is a
// comparable value type.
type BlockState struct {
	block Location
	props string
}

// Stateless returns the BlockState of block with no properties.
func Stateless(block Location) BlockState {
	return BlockState{block: block}
}

// Block returns the block location of the state.
func (s BlockState) Block() Location {
	return s.block
}

// Property returns the value of the named property, if present.
func (s BlockState) Property(key string) (string, bool) {
	rest := s.props
	for rest != "" {
		var pair string
		pair, rest, _ = strings.Cut(rest, ",")
		if k, v, ok := strings.Cut(pair, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// String returns the canonical form "ns:name[a=1,b=2]", with the
// brackets present even for an empty property set.
func (s BlockState) String() string {
	return s.block.String() + "[" + s.props + "]"
}

// StateBuilder accumulates properties for a BlockState. Keys and values
// are lowercased on entry; setting an existing key overwrites its value.
type StateBuilder struct {
	block Location
	props map[string]string
}

// NewStateBuilder creates a builder for the given block.
func NewStateBuilder(block Location) *StateBuilder {
	return &StateBuilder{block: block, props: make(map[string]string)}
}

// ParseStateString builds a state from a "k1=v1,k2=v2" property string,
// the form used by variant block-model selectors.
func ParseStateString(block Location, props string) BlockState {
	b := NewStateBuilder(block)
	for _, pair := range strings.Split(props, ",") {
		if k, v, ok := strings.Cut(pair, "="); ok {
			b.Set(k, v)
		}
	}
	return b.Build()
}

// Set records a property, lowercasing key and value.
func (b *StateBuilder) Set(key, value string) *StateBuilder {
	b.props[DefaultInterner.Lower(key)] = DefaultInterner.Lower(value)
	return b
}

// Get returns the value recorded for key, if any.
func (b *StateBuilder) Get(key string) (string, bool) {
	v, ok := b.props[strings.ToLower(key)]
	return v, ok
}

// Keys returns the recorded property keys in sorted order.
func (b *StateBuilder) Keys() []string {
	keys := make([]string, 0, len(b.props))
	for k := range b.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Build produces the immutable BlockState. Building with no properties
// yields the same value as Stateless.
func (b *StateBuilder) Build() BlockState {
	keys := b.Keys()
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(b.props[k])
	}
	return BlockState{
		block: b.block,
		props: DefaultInterner.Intern(sb.String()),
	}
}
