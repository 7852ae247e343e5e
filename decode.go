package anvil

import (
	"errors"
	"fmt"

	"github.com/mcvoxel/anvil/coord"
	"github.com/mcvoxel/anvil/format"
	"github.com/mcvoxel/anvil/resource"
)

// ErrUnsupportedVersion is returned when the world was written by a game
// version no decoder understands.
var ErrUnsupportedVersion = errors.New("no decoder for world version")

// chunkDecoder turns one chunk's on-disk payload into a populated chunk
// node. Implementations are selected per world version.
type chunkDecoder interface {
	decodeChunk(a *format.Region, c *Chunk) error
}

// decoderFor selects the decoder for a world version. Versions before
// 1.18 use different payload shapes and are not supported.
func decoderFor(v format.Version) (chunkDecoder, error) {
	if v.AtLeast(1, 18) {
		return decoder118{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedVersion, v)
}

// decoder118 decodes the 1.18+ chunk payload: sections at the top level
// of the compound, block states under block_states with an explicit
// palette list and an optional packed data array.
type decoder118 struct{}

func (decoder118) decodeChunk(a *format.Region, c *Chunk) error {
	var payload format.Chunk
	if err := a.LoadChunk(c.pos, &payload); err != nil {
		return err
	}

	for i := range payload.Sections {
		fsec := &payload.Sections[i]
		if fsec.Empty() {
			continue
		}
		// Section Y and palette contents come from the file; bad values
		// are decode errors, never contract panics.
		if int(fsec.Y) < coord.WorldRange.Min()>>4 || int(fsec.Y) > coord.WorldRange.Max()>>4 {
			return fmt.Errorf("payload section y %d outside world range", fsec.Y)
		}
		if _, ok := c.Section(fsec.Y); ok {
			return fmt.Errorf("payload repeats section %d", fsec.Y)
		}

		palette, err := paletteFromEntries(fsec.BlockStates.Palette)
		if err != nil {
			return fmt.Errorf("section %d: %w", fsec.Y, err)
		}
		indices, err := sectionIndices(palette, fsec.BlockStates.Data)
		if err != nil {
			return fmt.Errorf("section %d: %w", fsec.Y, err)
		}

		sec := c.NewSection(fsec.Y)
		sec.setPalette(palette)
		if err := sec.Fill(indices); err != nil {
			return fmt.Errorf("section %d: %w", fsec.Y, err)
		}
	}
	return nil
}

// paletteFromEntries builds a palette from the payload's ordered palette
// list; list position becomes the packed index. A state listed twice is
// a decode error: Palette.Define reserves its panic for caller bugs.
func paletteFromEntries(entries []format.PaletteEntry) (*Palette, error) {
	states := make([]resource.BlockState, 0, len(entries))
	seen := make(map[resource.BlockState]struct{}, len(entries))
	for _, e := range entries {
		b := resource.NewStateBuilder(resource.ParseLocation(e.Name))
		for k, v := range e.Properties {
			b.Set(k, v)
		}
		state := b.Build()
		if _, ok := seen[state]; ok {
			return nil, fmt.Errorf("palette lists %v twice", state)
		}
		seen[state] = struct{}{}
		states = append(states, state)
	}
	return PaletteFromStates(states), nil
}

// sectionIndices unpacks a section's data array into one index per
// block. An absent data array means the whole section is palette entry
// zero.
func sectionIndices(palette *Palette, data []int64) ([]uint32, error) {
	if len(data) == 0 {
		return make([]uint32, coord.SectionVolume), nil
	}
	r := format.NewPackedReader(palette.Bits(), format.Uint64Words(data))
	indices := r.Take(coord.SectionVolume)
	if len(indices) != coord.SectionVolume {
		return nil, fmt.Errorf("packed data holds %d indices, want %d", len(indices), coord.SectionVolume)
	}
	return indices, nil
}
