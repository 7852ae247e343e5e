package anvil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcvoxel/anvil/coord"
	"github.com/mcvoxel/anvil/resource"
)

func TestDimensionDirMapping(t *testing.T) {
	w := NewWorld("/saves/test")

	tests := []struct {
		id   resource.Location
		want string
	}{
		{Overworld, "/saves/test"},
		{Nether, filepath.Join("/saves/test", "DIM-1")},
		{End, filepath.Join("/saves/test", "DIM1")},
	}
	for _, tt := range tests {
		dir, ok := w.DimensionDir(tt.id)
		if !ok || dir != tt.want {
			t.Errorf("DimensionDir(%v) = %q, %v, want %q", tt.id, dir, ok, tt.want)
		}
	}

	if _, ok := w.DimensionDir(resource.ParseLocation("somemod:hollow")); ok {
		t.Fatal("DimensionDir resolved a modded dimension")
	}
}

func TestDuplicateDimensionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("creating a duplicate dimension did not panic")
		}
	}()
	w := NewWorld("/saves/test")
	w.NewDimension(Overworld, w.RootDir())
	w.NewDimension(Overworld, w.RootDir())
}

func TestGraphNavigation(t *testing.T) {
	w := NewWorld("/saves/test")
	d := w.NewDimension(Overworld, w.RootDir())
	r := d.NewRegion(coord.RegionPos{X: -1, Z: 0})
	c := r.NewChunk(coord.ChunkPos{X: -3, Z: 5})
	s := c.NewSection(-2)

	if s.Chunk() != c || c.Region() != r || r.Dimension() != d || d.World() != w {
		t.Fatal("parent pointers do not retrace the construction path")
	}
	if c.Dimension() != d || c.World() != w || r.World() != w {
		t.Fatal("shortcut accessors disagree with parent pointers")
	}

	if got, ok := d.Region(coord.RegionPos{X: -1, Z: 0}); !ok || got != r {
		t.Fatal("Region lookup did not return the created region")
	}
	if _, ok := d.Region(coord.RegionPos{X: 0, Z: 0}); ok {
		t.Fatal("Region lookup returned an uncreated region")
	}
	if got, ok := r.Chunk(coord.ChunkPos{X: -3, Z: 5}); !ok || got != c {
		t.Fatal("Chunk lookup did not return the created chunk")
	}
	if got, ok := c.Section(-2); !ok || got != s {
		t.Fatal("Section lookup did not return the created section")
	}
	if len(d.Regions()) != 1 || len(r.Chunks()) != 1 || len(c.Sections()) != 1 {
		t.Fatal("collection accessors disagree with the created graph")
	}
}

func TestBlockThroughGraph(t *testing.T) {
	w := NewWorld("/saves/test")
	d := w.NewDimension(Overworld, w.RootDir())
	r := d.NewRegion(coord.RegionPos{X: 0, Z: 0})
	c := r.NewChunk(coord.ChunkPos{X: 2, Z: 3})
	s := c.NewSection(1)

	pos := coord.BlockPos{X: 2*16 + 7, Y: 1*16 + 9, Z: 3*16 + 11}
	if _, ok := d.Block(pos); ok {
		t.Fatal("Block reported a state for an unset slot")
	}

	stone := state("stone")
	s.SetBlock(pos, stone)
	got, ok := d.Block(pos)
	if !ok || got != stone {
		t.Fatalf("Block(%v) = %v, %v, want stone", pos, got, ok)
	}

	// Absence at every level of the hierarchy, never an error.
	if _, ok := d.Block(coord.BlockPos{X: -1, Y: 0, Z: 0}); ok {
		t.Fatal("Block resolved through an unloaded region")
	}
	if _, ok := d.Block(coord.BlockPos{X: 0, Y: 0, Z: 0}); ok {
		t.Fatal("Block resolved through an unloaded chunk")
	}
	if _, ok := d.Block(coord.BlockPos{X: pos.X, Y: 200, Z: pos.Z}); ok {
		t.Fatal("Block resolved through an unloaded section")
	}
}

func TestSectionSetBlockGrowsPalette(t *testing.T) {
	w := NewWorld("/saves/test")
	c := w.NewDimension(Overworld, w.RootDir()).
		NewRegion(coord.RegionPos{}).
		NewChunk(coord.ChunkPos{})
	s := c.NewSection(0)

	a := coord.BlockPos{X: 0, Y: 0, Z: 0}
	b := coord.BlockPos{X: 1, Y: 0, Z: 0}
	s.SetBlock(a, state("stone"))
	s.SetBlock(b, state("stone"))
	s.SetBlock(a, state("dirt"))

	if s.Palette().Len() != 2 {
		t.Fatalf("palette Len() = %d, want 2", s.Palette().Len())
	}
	if got, _ := s.Block(a); got != state("dirt") {
		t.Fatalf("Block(a) = %v, want dirt", got)
	}
	if got, _ := s.Block(b); got != state("stone") {
		t.Fatalf("Block(b) = %v, want stone", got)
	}
}

func TestSectionFill(t *testing.T) {
	w := NewWorld("/saves/test")
	c := w.NewDimension(Overworld, w.RootDir()).
		NewRegion(coord.RegionPos{}).
		NewChunk(coord.ChunkPos{})
	s := c.NewSection(0)
	s.setPalette(PaletteFromStates([]resource.BlockState{state("stone"), state("dirt")}))

	if err := s.Fill(make([]uint32, 100)); err == nil {
		t.Fatal("Fill accepted a short index slice")
	}
	bad := make([]uint32, coord.SectionVolume)
	bad[17] = 9
	if err := s.Fill(bad); err == nil {
		t.Fatal("Fill accepted an index absent from the palette")
	}

	ids := make([]uint32, coord.SectionVolume)
	for i := range ids {
		ids[i] = uint32(i % 2)
	}
	if err := s.Fill(ids); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	blocks := coord.ChunkPos{}.SectionBlocks(0)
	if got, _ := s.Block(blocks[0]); got != state("stone") {
		t.Fatalf("block 0 = %v, want stone", got)
	}
	if got, _ := s.Block(blocks[1]); got != state("dirt") {
		t.Fatalf("block 1 = %v, want dirt", got)
	}
}

func TestContractPanics(t *testing.T) {
	newChunk := func() *Chunk {
		w := NewWorld("/saves/test")
		return w.NewDimension(Overworld, w.RootDir()).
			NewRegion(coord.RegionPos{}).
			NewChunk(coord.ChunkPos{})
	}

	tests := []struct {
		name string
		fn   func()
	}{
		{"foreign chunk", func() {
			w := NewWorld("/saves/test")
			r := w.NewDimension(Overworld, w.RootDir()).NewRegion(coord.RegionPos{})
			r.NewChunk(coord.ChunkPos{X: 32, Z: 0})
		}},
		{"duplicate chunk", func() {
			w := NewWorld("/saves/test")
			r := w.NewDimension(Overworld, w.RootDir()).NewRegion(coord.RegionPos{})
			r.NewChunk(coord.ChunkPos{})
			r.NewChunk(coord.ChunkPos{})
		}},
		{"duplicate region", func() {
			w := NewWorld("/saves/test")
			d := w.NewDimension(Overworld, w.RootDir())
			d.NewRegion(coord.RegionPos{})
			d.NewRegion(coord.RegionPos{})
		}},
		{"duplicate section", func() {
			c := newChunk()
			c.NewSection(0)
			c.NewSection(0)
		}},
		{"section below world", func() { newChunk().NewSection(-5) }},
		{"section above world", func() { newChunk().NewSection(20) }},
		{"foreign block read", func() {
			c := newChunk()
			s := c.NewSection(0)
			s.Block(coord.BlockPos{X: 100, Y: 0, Z: 0})
		}},
		{"block outside section", func() {
			c := newChunk()
			s := c.NewSection(0)
			s.SetBlock(coord.BlockPos{X: 0, Y: 40, Z: 0}, state("stone"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected a panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestUnload(t *testing.T) {
	w := NewWorld("/saves/test")
	d := w.NewDimension(Overworld, w.RootDir())
	r := d.NewRegion(coord.RegionPos{})
	r.NewChunk(coord.ChunkPos{})

	r.UnloadChunk(coord.ChunkPos{})
	if _, ok := r.Chunk(coord.ChunkPos{}); ok {
		t.Fatal("chunk survived UnloadChunk")
	}
	// The slot is free again after unloading.
	r.NewChunk(coord.ChunkPos{})

	d.UnloadRegion(coord.RegionPos{})
	if d.RegionLoaded(coord.RegionPos{}) {
		t.Fatal("region survived UnloadRegion")
	}

	w.UnloadDimension(Overworld)
	if _, ok := w.Dimension(Overworld); ok {
		t.Fatal("dimension survived UnloadDimension")
	}
	w.UnloadDimension(Overworld) // no-op on an absent key
}

func TestProbeRegions(t *testing.T) {
	root := t.TempDir()
	regionDir := filepath.Join(root, "region")
	if err := os.MkdirAll(regionDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"r.0.0.mca", "r.-1.2.mca", "r.3.-4.mca", "notes.txt", "r.1.1.mcc"} {
		if err := os.WriteFile(filepath.Join(regionDir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w := NewWorld(root)
	d := w.NewDimension(Overworld, root)
	got, err := d.ProbeRegions()
	if err != nil {
		t.Fatalf("ProbeRegions: %v", err)
	}
	want := map[coord.RegionPos]bool{
		{X: 0, Z: 0}:  true,
		{X: -1, Z: 2}: true,
		{X: 3, Z: -4}: true,
	}
	if len(got) != len(want) {
		t.Fatalf("ProbeRegions = %v, want %d positions", got, len(want))
	}
	for _, pos := range got {
		if !want[pos] {
			t.Fatalf("ProbeRegions returned unexpected %v", pos)
		}
	}
}

func TestProbeDimensions(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"region", filepath.Join("DIM1", "region")} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	got := NewWorld(root).ProbeDimensions()
	if len(got) != 2 || got[0] != Overworld || got[1] != End {
		t.Fatalf("ProbeDimensions = %v, want [overworld, the_end]", got)
	}
}
