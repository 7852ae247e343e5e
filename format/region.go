// Package format decodes the on-disk Anvil world format: sector-based
// region files, the bit-packed palette index arrays inside chunk
// payloads, and the level.dat metadata used to pick a payload decoder.
package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/mcvoxel/anvil/coord"
)

const (
	// SectorSize is the allocation unit of a region file in bytes.
	SectorSize = 4096
	// tableEntries is the number of chunk slots in a region's offset table.
	tableEntries = coord.RegionDiameter * coord.RegionDiameter
)

// Compression tags used in chunk payload headers.
const (
	CompressionGzip = 1
	CompressionZlib = 2
)

// Typed format errors. All decode failures wrap one of these so callers
// can tolerate a bad chunk without aborting the whole region.
var (
	// ErrNotSectorAligned is returned when a region file's length is zero
	// or not a multiple of SectorSize.
	ErrNotSectorAligned = errors.New("region file size is not a nonzero multiple of 4096")
	// ErrBadOffsetTable is returned when an offset-table entry points
	// outside the file.
	ErrBadOffsetTable = errors.New("chunk offset table entry exceeds file size")
	// ErrBadChunkHeader is returned when a chunk payload's length header
	// is truncated or inconsistent.
	ErrBadChunkHeader = errors.New("bad chunk payload header")
	// ErrUnknownCompression is returned for a compression tag other than
	// gzip (1) or zlib (2).
	ErrUnknownCompression = errors.New("unknown chunk compression scheme")
)

// chunkSlot is one decoded offset-table entry, in bytes.
type chunkSlot struct {
	offset int
	length int
}

// Region is a decoded, read-only snapshot of one region file: the raw
// bytes plus the offset table locating each of the 1024 chunk slots.
// A Region is immutable once constructed and safe for concurrent use.
type Region struct {
	pos   coord.RegionPos
	data  []byte
	slots [tableEntries]chunkSlot
}

// RegionPath returns the conventional file name of a region,
// "r.{x}.{z}.mca" under the dimension's region directory.
func RegionPath(regionDir string, pos coord.RegionPos) string {
	return filepath.Join(regionDir, fmt.Sprintf("r.%d.%d.mca", pos.X, pos.Z))
}

// OpenRegion reads and decodes the region file for pos from regionDir.
func OpenRegion(regionDir string, pos coord.RegionPos) (*Region, error) {
	path := RegionPath(regionDir, pos)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open region %v: %w", pos, err)
	}
	r, err := RegionFromBytes(pos, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// RegionFromBytes decodes a region container from an in-memory buffer.
// The buffer is retained; callers must not mutate it afterwards.
func RegionFromBytes(pos coord.RegionPos, data []byte) (*Region, error) {
	if len(data) == 0 || len(data)%SectorSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotSectorAligned, len(data))
	}

	r := &Region{pos: pos, data: data}
	for i := range r.slots {
		packed := binary.BigEndian.Uint32(data[i*4 : i*4+4])
		slot := chunkSlot{
			offset: int(packed>>8) * SectorSize,
			length: int(packed&0xFF) * SectorSize,
		}
		if slot.length > 0 && slot.offset+slot.length > len(data) {
			return nil, fmt.Errorf("%w: slot %d at %d+%d, file is %d bytes",
				ErrBadOffsetTable, i, slot.offset, slot.length, len(data))
		}
		r.slots[i] = slot
	}
	return r, nil
}

// Pos returns the region's position.
func (r *Region) Pos() coord.RegionPos {
	return r.pos
}

// slot returns the offset-table entry for the chunk, which may belong to
// any region: only the region-relative part of the position is used.
func (r *Region) slot(pos coord.ChunkPos) chunkSlot {
	rel := pos.RegionRelative()
	return r.slots[rel.Z*coord.RegionDiameter+rel.X]
}

// Empty reports whether the chunk slot for pos holds no data.
func (r *Region) Empty(pos coord.ChunkPos) bool {
	return r.slot(pos).length == 0
}

// Chunks returns the absolute positions of all non-empty chunks, in the
// offset table's row-major order.
func (r *Region) Chunks() []coord.ChunkPos {
	min := r.pos.MinChunk()
	var out []coord.ChunkPos
	for i, slot := range r.slots {
		if slot.length == 0 {
			continue
		}
		out = append(out, coord.ChunkPos{
			X: min.X + int32(i%coord.RegionDiameter),
			Z: min.Z + int32(i/coord.RegionDiameter),
		})
	}
	return out
}

// CompressedChunk returns the raw byte slice of the chunk's payload,
// including its length and compression headers. Calling it for an empty
// slot or for a chunk belonging to a different region is a caller bug
// and panics.
func (r *Region) CompressedChunk(pos coord.ChunkPos) []byte {
	if !r.pos.Contains(pos) {
		panic(fmt.Sprintf("chunk %v belongs to region %v, requested from %v",
			pos, pos.RegionOf(), r.pos))
	}
	slot := r.slot(pos)
	if slot.length == 0 {
		panic(fmt.Sprintf("chunk %v is empty in region %v", pos, r.pos))
	}
	return r.data[slot.offset : slot.offset+slot.length]
}

// LoadChunk decompresses the chunk payload at pos and NBT-decodes it
// into v. The payload starts with a 4-byte big-endian length and a
// 1-byte compression tag; the length counts the tag byte plus the
// compressed data. Format and decode failures are returned as wrapped
// typed errors.
func (r *Region) LoadChunk(pos coord.ChunkPos, v any) error {
	raw := r.CompressedChunk(pos)
	if len(raw) < 5 {
		return fmt.Errorf("chunk %v (region %v): %w: %d bytes", pos, r.pos, ErrBadChunkHeader, len(raw))
	}

	payloadLen := int(binary.BigEndian.Uint32(raw[:4]))
	if payloadLen < 1 || payloadLen > len(raw)-4 {
		return fmt.Errorf("chunk %v (region %v): %w: payload length %d exceeds %d available",
			pos, r.pos, ErrBadChunkHeader, payloadLen, len(raw)-4)
	}

	compressed := raw[5 : 4+payloadLen]
	var (
		body io.Reader
		err  error
	)
	switch tag := raw[4]; tag {
	case CompressionGzip:
		gz, gzErr := gzip.NewReader(bytes.NewReader(compressed))
		if gzErr != nil {
			return fmt.Errorf("chunk %v (region %v): gzip: %w", pos, r.pos, gzErr)
		}
		defer gz.Close()
		body = gz
	case CompressionZlib:
		zr, zErr := zlib.NewReader(bytes.NewReader(compressed))
		if zErr != nil {
			return fmt.Errorf("chunk %v (region %v): zlib: %w", pos, r.pos, zErr)
		}
		defer zr.Close()
		body = zr
	default:
		return fmt.Errorf("chunk %v (region %v): %w: tag %d", pos, r.pos, ErrUnknownCompression, tag)
	}

	if _, err = nbt.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("chunk %v (region %v): decode nbt: %w", pos, r.pos, err)
	}
	return nil
}
