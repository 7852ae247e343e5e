package anvil

import (
	"fmt"
	"math/bits"

	"github.com/mcvoxel/anvil/resource"
)

// Palette is the per-section bidirectional mapping between the small
// integer ids of a packed block array and full block states. Each id and
// each state appears at most once; defining a duplicate of either is a
// caller bug.
type Palette struct {
	idToState map[uint32]resource.BlockState
	stateToID map[resource.BlockState]uint32
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{
		idToState: make(map[uint32]resource.BlockState),
		stateToID: make(map[resource.BlockState]uint32),
	}
}

// PaletteFromStates builds a palette from an ordered state list,
// assigning ids 0..len-1 in sequence order. This is the shape the save
// format provides: an explicit per-section palette list whose positions
// are the packed indices.
func PaletteFromStates(states []resource.BlockState) *Palette {
	p := NewPalette()
	for i, state := range states {
		p.Define(uint32(i), state)
	}
	return p
}

// Define adds an id/state pair. It panics when the id is already defined
// or the state is already defined under another id; either would corrupt
// the bidirectional mapping.
func (p *Palette) Define(id uint32, state resource.BlockState) {
	if old, ok := p.idToState[id]; ok {
		panic(fmt.Sprintf("palette id %d already defined as %v, redefined as %v", id, old, state))
	}
	if old, ok := p.stateToID[state]; ok {
		panic(fmt.Sprintf("palette state %v already defined with id %d, redefined with id %d", state, old, id))
	}
	p.idToState[id] = state
	p.stateToID[state] = id
}

// State returns the state defined for id, if any.
func (p *Palette) State(id uint32) (resource.BlockState, bool) {
	state, ok := p.idToState[id]
	return state, ok
}

// ID returns the id defined for state, if any.
func (p *Palette) ID(state resource.BlockState) (uint32, bool) {
	id, ok := p.stateToID[state]
	return id, ok
}

// Len returns the number of defined entries.
func (p *Palette) Len() int {
	return len(p.idToState)
}

// Bits returns the packed-index width implied by the defined ids: 0 for
// an empty palette, at least 4 otherwise, and above that the bit length
// of the maximum id. An exact power-of-two maximum takes one extra bit,
// matching the save format's palette-size encoding convention.
func (p *Palette) Bits() int {
	var maxID uint32
	if len(p.idToState) == 0 {
		return 0
	}
	for id := range p.idToState {
		if id > maxID {
			maxID = id
		}
	}
	if maxID < 16 {
		return 4
	}
	return bits.Len32(maxID)
}
