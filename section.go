package anvil

import (
	"fmt"
	"sync"

	"github.com/mcvoxel/anvil/coord"
	"github.com/mcvoxel/anvil/resource"
)

// unsetBlock marks a section slot that holds no block yet.
const unsetBlock = ^uint32(0)

// Section is one 16x16x16 cube of a chunk: a palette of block states
// plus a dense array of palette indices, one per block, initially all
// unset.
type Section struct {
	mu      sync.RWMutex
	chunk   *Chunk
	y       int8
	palette *Palette
	blocks  [coord.SectionVolume]uint32
}

func newSection(chunk *Chunk, y int8) *Section {
	s := &Section{
		chunk:   chunk,
		y:       y,
		palette: NewPalette(),
	}
	for i := range s.blocks {
		s.blocks[i] = unsetBlock
	}
	return s
}

// Y returns the section's vertical coordinate, in sections.
func (s *Section) Y() int8 {
	return s.y
}

// Chunk returns the chunk the section belongs to.
func (s *Section) Chunk() *Chunk {
	return s.chunk
}

// Palette returns the section's palette.
func (s *Section) Palette() *Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.palette
}

// Block returns the state at the given absolute position. It reports
// absence when the slot is unset. Positions outside this section are a
// caller bug and panic.
func (s *Section) Block(pos coord.BlockPos) (resource.BlockState, bool) {
	i := s.flatIndex(pos)
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := s.blocks[i]
	if id == unsetBlock {
		return resource.BlockState{}, false
	}
	state, ok := s.palette.State(id)
	if !ok {
		panic(fmt.Sprintf("section %d of %v holds id %d absent from palette", s.y, s.chunk.pos, id))
	}
	return state, true
}

// SetBlock stores a state at the given absolute position, growing the
// palette when the state is new to this section. Positions outside
// this section are a caller bug and panic.
func (s *Section) SetBlock(pos coord.BlockPos, state resource.BlockState) {
	i := s.flatIndex(pos)
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.palette.ID(state)
	if !ok {
		id = uint32(s.palette.Len())
		s.palette.Define(id, state)
	}
	s.blocks[i] = id
}

// Fill replaces the whole index array at once. The ids must cover the
// section exactly, in Y-then-Z-then-X order, and each id must already
// be defined in the palette.
func (s *Section) Fill(ids []uint32) error {
	if len(ids) != coord.SectionVolume {
		return fmt.Errorf("fill section: got %d indices, want %d", len(ids), coord.SectionVolume)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.palette.State(id); !ok {
			return fmt.Errorf("fill section: index %d absent from palette", id)
		}
	}
	copy(s.blocks[:], ids)
	return nil
}

// setPalette swaps in a fully built palette. Used by chunk decoders
// before filling the index array.
func (s *Section) setPalette(p *Palette) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.palette = p
}

// flatIndex maps an absolute block position to its slot in the index
// array, panicking when the position lies outside this section.
func (s *Section) flatIndex(pos coord.BlockPos) int {
	if pos.ChunkOf() != s.chunk.pos || pos.Section() != s.y {
		panic(fmt.Sprintf("block %v does not belong to section %d of %v", pos, s.y, s.chunk.pos))
	}
	rel := pos.ChunkRelative()
	return int(rel.Y)*coord.ChunkDiameter*coord.ChunkDiameter + int(rel.Z)*coord.ChunkDiameter + int(rel.X)
}
