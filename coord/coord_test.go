package coord

import "testing"

func TestBlockPosChunkRelative(t *testing.T) {
	tests := []struct {
		in   BlockPos
		want BlockPos
	}{
		{BlockPos{0, 0, 0}, BlockPos{0, 0, 0}},
		{BlockPos{-1, 0, 0}, BlockPos{15, 0, 0}},
		{BlockPos{17, -17, 33}, BlockPos{1, 15, 1}},
		{BlockPos{-16, -64, -16}, BlockPos{0, 0, 0}},
	}
	for _, tt := range tests {
		if got := tt.in.ChunkRelative(); got != tt.want {
			t.Fatalf("ChunkRelative(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBlockPosSection(t *testing.T) {
	tests := []struct {
		y    int32
		want int8
	}{
		{0, 0}, {15, 0}, {16, 1}, {-1, -1}, {-64, -4}, {319, 19},
	}
	for _, tt := range tests {
		p := BlockPos{0, tt.y, 0}
		if got := p.Section(); got != tt.want {
			t.Fatalf("Section(y=%d) = %d, want %d", tt.y, got, tt.want)
		}
	}
}

func TestChunkPosRegionRelative(t *testing.T) {
	if got := (ChunkPos{0, 0}).RegionRelative(); got != (ChunkPos{0, 0}) {
		t.Fatalf("RegionRelative(0,0) = %v", got)
	}
	if got := (ChunkPos{-1, 0}).RegionRelative(); got != (ChunkPos{31, 0}) {
		t.Fatalf("RegionRelative(-1,0) = %v, want (31,0)", got)
	}
	if got := (ChunkPos{-33, 64}).RegionRelative(); got != (ChunkPos{31, 0}) {
		t.Fatalf("RegionRelative(-33,64) = %v, want (31,0)", got)
	}
}

func TestRegionOfFloorSemantics(t *testing.T) {
	// Shift conversions must floor, not truncate toward zero.
	if got := (ChunkPos{-1, 0}).RegionOf(); got != (RegionPos{-1, 0}) {
		t.Fatalf("RegionOf(chunk -1,0) = %v, want (-1,0)", got)
	}
	if got := (BlockPos{-1, 0, 0}).ChunkOf(); got != (ChunkPos{-1, 0}) {
		t.Fatalf("ChunkOf(block -1,0,0) = %v, want (-1,0)", got)
	}
	if got := (BlockPos{-1, 0, 0}).RegionOf(); got != (RegionPos{-1, 0}) {
		t.Fatalf("RegionOf(block -1,0,0) = %v, want (-1,0)", got)
	}
	if got := (BlockPos{-513, 0, 512}).RegionOf(); got != (RegionPos{-2, 1}) {
		t.Fatalf("RegionOf(block -513,0,512) = %v, want (-2,1)", got)
	}
}

func TestChunkPosBlockBounds(t *testing.T) {
	p := ChunkPos{0, 0}
	if got := p.MinBlock(); got != (BlockPos{0, int32(WorldRange.Min()), 0}) {
		t.Fatalf("MinBlock = %v", got)
	}
	if got := p.MaxBlock(); got != (BlockPos{15, int32(WorldRange.Max()), 15}) {
		t.Fatalf("MaxBlock = %v", got)
	}

	p = ChunkPos{-1, -1}
	if got := p.MinBlock(); got.X != -16 || got.Z != -16 {
		t.Fatalf("MinBlock(-1,-1) = %v", got)
	}
	if got := p.MaxBlock(); got.X != -1 || got.Z != -1 {
		t.Fatalf("MaxBlock(-1,-1) = %v", got)
	}
}

func TestSectionBlocksOrder(t *testing.T) {
	blocks := (ChunkPos{-1, -1}).SectionBlocks(0)
	if len(blocks) != SectionVolume {
		t.Fatalf("SectionBlocks returned %d positions, want %d", len(blocks), SectionVolume)
	}
	if blocks[0].Y != 0 || blocks[len(blocks)-1].Y != 15 {
		t.Fatalf("section 0 spans y=%d..%d, want 0..15", blocks[0].Y, blocks[len(blocks)-1].Y)
	}
	// X varies fastest, then Z, then Y.
	if blocks[1].X != blocks[0].X+1 || blocks[1].Z != blocks[0].Z || blocks[1].Y != blocks[0].Y {
		t.Fatalf("unexpected order: %v then %v", blocks[0], blocks[1])
	}
	if blocks[16].Z != blocks[0].Z+1 {
		t.Fatalf("expected Z step at index 16, got %v", blocks[16])
	}
	if blocks[256].Y != blocks[0].Y+1 {
		t.Fatalf("expected Y step at index 256, got %v", blocks[256])
	}

	blocks = (ChunkPos{0, 0}).SectionBlocks(-1)
	if blocks[0].Y != -16 || blocks[len(blocks)-1].Y != -1 {
		t.Fatalf("section -1 spans y=%d..%d, want -16..-1", blocks[0].Y, blocks[len(blocks)-1].Y)
	}
}

func TestRegionPosChunks(t *testing.T) {
	p := RegionPos{0, 0}
	if got := p.MinChunk(); got != (ChunkPos{0, 0}) {
		t.Fatalf("MinChunk = %v", got)
	}
	if got := p.MaxChunk(); got != (ChunkPos{31, 31}) {
		t.Fatalf("MaxChunk = %v", got)
	}
	chunks := p.Chunks()
	if len(chunks) != 1024 {
		t.Fatalf("Chunks returned %d, want 1024", len(chunks))
	}
	// Row-major: X varies fastest.
	if chunks[1] != (ChunkPos{1, 0}) || chunks[32] != (ChunkPos{0, 1}) {
		t.Fatalf("unexpected chunk order: %v, %v", chunks[1], chunks[32])
	}

	p = RegionPos{-1, -1}
	if got := p.MinChunk(); got != (ChunkPos{-32, -32}) {
		t.Fatalf("MinChunk(-1,-1) = %v", got)
	}
	if got := p.MaxChunk(); got != (ChunkPos{-1, -1}) {
		t.Fatalf("MaxChunk(-1,-1) = %v", got)
	}
}

func TestParsePositions(t *testing.T) {
	if p, err := ParseBlockPos("1, -2, 3"); err != nil || p != (BlockPos{1, -2, 3}) {
		t.Fatalf("ParseBlockPos = %v, %v", p, err)
	}
	if p, err := ParseChunkPos("-1,4"); err != nil || p != (ChunkPos{-1, 4}) {
		t.Fatalf("ParseChunkPos = %v, %v", p, err)
	}
	if p, err := ParseRegionPos("0,0"); err != nil || p != (RegionPos{0, 0}) {
		t.Fatalf("ParseRegionPos = %v, %v", p, err)
	}
	for _, bad := range []string{"", "abc", "1,2,3,4", "1"} {
		if _, err := ParseChunkPos(bad); err == nil {
			t.Fatalf("ParseChunkPos(%q) succeeded, want error", bad)
		}
	}
}
