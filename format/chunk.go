package format

// Chunk payload shapes for the 1.18+ save format. Field tags follow the
// on-disk NBT names, which changed in 1.18 when sections moved out of
// the old "Level" envelope.

// Chunk is the structured payload of one chunk, post-decompression.
type Chunk struct {
	DataVersion int32     `nbt:"DataVersion"`
	XPos        int32     `nbt:"xPos"`
	YPos        int32     `nbt:"yPos"`
	ZPos        int32     `nbt:"zPos"`
	Status      string    `nbt:"Status"`
	Sections    []Section `nbt:"sections"`
}

// Section is one 16x16x16 vertical slice of a chunk.
type Section struct {
	Y           int8        `nbt:"Y"`
	BlockStates BlockStates `nbt:"block_states"`
}

// BlockStates holds a section's ordered palette and its packed index
// array. Data is absent when the palette has a single entry.
type BlockStates struct {
	Palette []PaletteEntry `nbt:"palette"`
	Data    []int64        `nbt:"data"`
}

// PaletteEntry names one block state in a section palette.
type PaletteEntry struct {
	Name       string            `nbt:"Name"`
	Properties map[string]string `nbt:"Properties"`
}

// Empty reports whether the section carries no block data at all.
func (s *Section) Empty() bool {
	return len(s.BlockStates.Palette) == 0
}
