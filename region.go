package anvil

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mcvoxel/anvil/coord"
	"github.com/mcvoxel/anvil/format"
)

// ErrChunkAbsent is returned when loading a chunk whose slot in the
// backing region file holds no data.
var ErrChunkAbsent = errors.New("chunk not present in region file")

// Region is one 32x32 chunk area of a dimension. It pairs the loaded
// chunk nodes with an optional handle on the backing region file.
type Region struct {
	mu        sync.RWMutex
	dimension *Dimension
	pos       coord.RegionPos
	chunks    map[coord.ChunkPos]*Chunk

	anvil *format.Region
}

// Pos returns the region's position.
func (r *Region) Pos() coord.RegionPos {
	return r.pos
}

// Dimension returns the dimension the region belongs to.
func (r *Region) Dimension() *Dimension {
	return r.dimension
}

// World returns the world the region belongs to.
func (r *Region) World() *World {
	return r.dimension.world
}

// Anvil returns the parsed region file backing this region, if it has
// been loaded with LoadAnvil.
func (r *Region) Anvil() (*format.Region, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.anvil, r.anvil != nil
}

// LoadAnvil reads and parses the region's file from the dimension's
// region directory, caching the result. Subsequent calls return the
// cached file without touching the disk.
func (r *Region) LoadAnvil() (*format.Region, error) {
	r.mu.RLock()
	a := r.anvil
	r.mu.RUnlock()
	if a != nil {
		return a, nil
	}

	a, err := format.OpenRegion(r.dimension.RegionDir(), r.pos)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.anvil = a
	r.mu.Unlock()
	return a, nil
}

// NewChunk creates the chunk node at pos. The position must lie within
// this region, and creating a chunk that is already loaded is a caller
// bug; both violations panic.
func (r *Region) NewChunk(pos coord.ChunkPos) *Chunk {
	if pos.RegionOf() != r.pos {
		panic(fmt.Sprintf("chunk %v does not belong to region %v", pos, r.pos))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chunks[pos]; ok {
		panic(fmt.Sprintf("duplicate chunk %v in region %v", pos, r.pos))
	}
	c := &Chunk{
		region:   r,
		pos:      pos,
		sections: make(map[int8]*Section),
	}
	r.chunks[pos] = c
	return c
}

// Chunk returns the loaded chunk at pos, if any.
func (r *Region) Chunk(pos coord.ChunkPos) (*Chunk, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chunks[pos]
	return c, ok
}

// Chunks returns all loaded chunks.
func (r *Region) Chunks() []*Chunk {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Chunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		out = append(out, c)
	}
	return out
}

// UnloadChunk removes the chunk at pos and drops its sections.
func (r *Region) UnloadChunk(pos coord.ChunkPos) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chunks, pos)
}

// LoadChunk decodes the chunk at pos from the backing region file into
// a fresh chunk node, creating it in the graph. The region file is
// opened on first use and the decoder is selected from the world
// version. Loading a chunk that is already loaded panics, like
// NewChunk.
func (r *Region) LoadChunk(pos coord.ChunkPos) (*Chunk, error) {
	a, err := r.LoadAnvil()
	if err != nil {
		return nil, err
	}
	if a.Empty(pos) {
		return nil, fmt.Errorf("chunk %v: %w", pos, ErrChunkAbsent)
	}
	dec, err := r.World().chunkDecoderFor()
	if err != nil {
		return nil, err
	}

	c := r.NewChunk(pos)
	if err := dec.decodeChunk(a, c); err != nil {
		r.UnloadChunk(pos)
		return nil, fmt.Errorf("decode chunk %v: %w", pos, err)
	}
	return c, nil
}

// Chunk is one 16x16 column of a region, holding up to 24 loaded
// sections keyed by section Y.
type Chunk struct {
	mu       sync.RWMutex
	region   *Region
	pos      coord.ChunkPos
	sections map[int8]*Section
}

// Pos returns the chunk's position.
func (c *Chunk) Pos() coord.ChunkPos {
	return c.pos
}

// Region returns the region the chunk belongs to.
func (c *Chunk) Region() *Region {
	return c.region
}

// Dimension returns the dimension the chunk belongs to.
func (c *Chunk) Dimension() *Dimension {
	return c.region.dimension
}

// World returns the world the chunk belongs to.
func (c *Chunk) World() *World {
	return c.region.dimension.world
}

// NewSection creates the section node at section coordinate y. The
// coordinate must lie within the world's vertical range, and creating
// a section that is already loaded is a caller bug; both violations
// panic.
func (c *Chunk) NewSection(y int8) *Section {
	if int(y) < coord.WorldRange.Min()>>4 || int(y) > coord.WorldRange.Max()>>4 {
		panic(fmt.Sprintf("section y %d outside world range %v", y, coord.WorldRange))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sections[y]; ok {
		panic(fmt.Sprintf("duplicate section %d in chunk %v", y, c.pos))
	}
	s := newSection(c, y)
	c.sections[y] = s
	return s
}

// Section returns the loaded section at section coordinate y, if any.
func (c *Chunk) Section(y int8) (*Section, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sections[y]
	return s, ok
}

// Sections returns all loaded sections.
func (c *Chunk) Sections() []*Section {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Section, 0, len(c.sections))
	for _, s := range c.sections {
		out = append(out, s)
	}
	return out
}
