// Package coord provides the coordinate spaces of an Anvil world: block,
// chunk and region positions, with the floor-division conversions between
// them that the save format relies on.
package coord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
)

const (
	// ChunkDiameter is the horizontal size of a chunk in blocks.
	ChunkDiameter = 16
	// RegionDiameter is the size of a region in chunks along one axis.
	RegionDiameter = 32
	// SectionVolume is the number of blocks in one 16x16x16 chunk section.
	SectionVolume = ChunkDiameter * ChunkDiameter * ChunkDiameter
)

// WorldRange is the vertical extent of the world in blocks, inclusive on
// both ends. It spans 384 blocks, or 24 sections.
var WorldRange = cube.Range{-64, 319}

// BlockPos is an absolute block position in a dimension.
type BlockPos struct {
	X, Y, Z int32
}

// ChunkOf returns the chunk containing the block. Shifts rather than
// division keep floor semantics for negative coordinates.
func (p BlockPos) ChunkOf() ChunkPos {
	return ChunkPos{X: p.X >> 4, Z: p.Z >> 4}
}

// RegionOf returns the region containing the block.
func (p BlockPos) RegionOf() RegionPos {
	return RegionPos{X: p.X >> 9, Z: p.Z >> 9}
}

// ChunkRelative reduces the position to chunk-local coordinates, each axis
// in [0, 16). Y is reduced modulo 16 as well, giving the section-local Y.
func (p BlockPos) ChunkRelative() BlockPos {
	return BlockPos{
		X: floorMod(p.X, ChunkDiameter),
		Y: floorMod(p.Y, ChunkDiameter),
		Z: floorMod(p.Z, ChunkDiameter),
	}
}

// Section returns the signed section-Y index the block falls in.
func (p BlockPos) Section() int8 {
	return int8(p.Y >> 4)
}

// InWorld reports whether the block's Y lies within WorldRange.
func (p BlockPos) InWorld() bool {
	return int(p.Y) >= WorldRange.Min() && int(p.Y) <= WorldRange.Max()
}

// String implements fmt.Stringer.
func (p BlockPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// ChunkPos is the position of a 16x16-block chunk column.
type ChunkPos struct {
	X, Z int32
}

// RegionOf returns the region containing the chunk.
func (p ChunkPos) RegionOf() RegionPos {
	return RegionPos{X: p.X >> 5, Z: p.Z >> 5}
}

// RegionRelative reduces the position to region-local coordinates, each
// axis in [0, 32).
func (p ChunkPos) RegionRelative() ChunkPos {
	return ChunkPos{
		X: floorMod(p.X, RegionDiameter),
		Z: floorMod(p.Z, RegionDiameter),
	}
}

// MinBlock returns the lowest block position contained in the chunk.
func (p ChunkPos) MinBlock() BlockPos {
	return BlockPos{
		X: p.X * ChunkDiameter,
		Y: int32(WorldRange.Min()),
		Z: p.Z * ChunkDiameter,
	}
}

// MaxBlock returns the highest block position contained in the chunk.
func (p ChunkPos) MaxBlock() BlockPos {
	return BlockPos{
		X: p.X*ChunkDiameter + ChunkDiameter - 1,
		Y: int32(WorldRange.Max()),
		Z: p.Z*ChunkDiameter + ChunkDiameter - 1,
	}
}

// SectionBlocks returns every block position of section y of the chunk, in
// the canonical storage order: Y outermost, then Z, then X. The slice
// always holds SectionVolume entries.
func (p ChunkPos) SectionBlocks(y int8) []BlockPos {
	min, max := p.MinBlock(), p.MaxBlock()
	minY := int32(y) * ChunkDiameter

	out := make([]BlockPos, 0, SectionVolume)
	for by := minY; by < minY+ChunkDiameter; by++ {
		for bz := min.Z; bz <= max.Z; bz++ {
			for bx := min.X; bx <= max.X; bx++ {
				out = append(out, BlockPos{X: bx, Y: by, Z: bz})
			}
		}
	}
	return out
}

// String implements fmt.Stringer.
func (p ChunkPos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Z)
}

// RegionPos is the position of a 32x32-chunk region.
type RegionPos struct {
	X, Z int32
}

// MinChunk returns the lowest chunk position contained in the region.
func (p RegionPos) MinChunk() ChunkPos {
	return ChunkPos{X: p.X * RegionDiameter, Z: p.Z * RegionDiameter}
}

// MaxChunk returns the highest chunk position contained in the region.
func (p RegionPos) MaxChunk() ChunkPos {
	return ChunkPos{
		X: p.X*RegionDiameter + RegionDiameter - 1,
		Z: p.Z*RegionDiameter + RegionDiameter - 1,
	}
}

// Chunks returns all 1024 chunk positions of the region in row-major
// order, Z outermost, matching the region file's offset table order.
func (p RegionPos) Chunks() []ChunkPos {
	min, max := p.MinChunk(), p.MaxChunk()
	out := make([]ChunkPos, 0, RegionDiameter*RegionDiameter)
	for z := min.Z; z <= max.Z; z++ {
		for x := min.X; x <= max.X; x++ {
			out = append(out, ChunkPos{X: x, Z: z})
		}
	}
	return out
}

// Contains reports whether the chunk lies within the region.
func (p RegionPos) Contains(c ChunkPos) bool {
	return c.RegionOf() == p
}

// String implements fmt.Stringer.
func (p RegionPos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Z)
}

// ParseBlockPos parses a "x,y,z" string into a BlockPos.
func ParseBlockPos(s string) (BlockPos, error) {
	v, err := parseInts(s, 3)
	if err != nil {
		return BlockPos{}, fmt.Errorf("parse block position %q: %w", s, err)
	}
	return BlockPos{X: v[0], Y: v[1], Z: v[2]}, nil
}

// ParseChunkPos parses a "x,z" string into a ChunkPos.
func ParseChunkPos(s string) (ChunkPos, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return ChunkPos{}, fmt.Errorf("parse chunk position %q: %w", s, err)
	}
	return ChunkPos{X: v[0], Z: v[1]}, nil
}

// ParseRegionPos parses a "x,z" string into a RegionPos.
func ParseRegionPos(s string) (RegionPos, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return RegionPos{}, fmt.Errorf("parse region position %q: %w", s, err)
	}
	return RegionPos{X: v[0], Z: v[1]}, nil
}

// parseInts splits a comma-separated list of exactly n integers.
func parseInts(s string, n int) ([]int32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated values, got %d", n, len(parts))
	}
	out := make([]int32, n)
	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, err
		}
		out[i] = int32(v)
	}
	return out, nil
}

// floorMod is the Euclidean remainder: the result always lies in [0, m).
func floorMod(v, m int32) int32 {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}
