// Package anvil exposes a navigable in-memory model of an Anvil world
// save: a lazily-populated hierarchy of dimensions, regions, chunks and
// 16x16x16 sections, each section holding a block-state palette and a
// dense packed-index array decoded from the on-disk region files.
//
// Nodes are created strictly on demand through the New*/Load* methods;
// read accessors never create. Creating a node at an occupied key is a
// caller bug and panics, while reads of unloaded keys simply report
// absence.
package anvil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcvoxel/anvil/coord"
	"github.com/mcvoxel/anvil/format"
	"github.com/mcvoxel/anvil/resource"
)

// Vanilla dimension identifiers.
var (
	Overworld = resource.ParseLocation("minecraft:overworld")
	Nether    = resource.ParseLocation("minecraft:the_nether")
	End       = resource.ParseLocation("minecraft:the_end")
)

// World is the root of the object graph: the save directory plus the
// dimensions loaded from it.
type World struct {
	mu         sync.RWMutex
	rootDir    string
	dimensions map[resource.Location]*Dimension

	version *format.Version
	decoder chunkDecoder
}

// NewWorld creates a world rooted at the given save directory. Nothing
// is read from disk until a dimension, region or chunk is loaded.
func NewWorld(rootDir string) *World {
	return &World{
		rootDir:    rootDir,
		dimensions: make(map[resource.Location]*Dimension),
	}
}

// RootDir returns the save's root directory.
func (w *World) RootDir() string {
	return w.rootDir
}

// Version probes level.dat for the game version that wrote the save.
// The result is cached after the first successful probe.
func (w *World) Version() (format.Version, error) {
	w.mu.RLock()
	v := w.version
	w.mu.RUnlock()
	if v != nil {
		return *v, nil
	}

	probed, err := format.IdentifyVersion(w.rootDir)
	if err != nil {
		return format.Version{}, fmt.Errorf("identify world version: %w", err)
	}

	w.mu.Lock()
	w.version = &probed
	w.mu.Unlock()
	return probed, nil
}

// DimensionDir resolves the root directory of a vanilla dimension. The
// second return is false for modded dimensions, whose directories are
// resolved externally.
func (w *World) DimensionDir(id resource.Location) (string, bool) {
	switch id {
	case Overworld:
		return w.rootDir, true
	case Nether:
		return filepath.Join(w.rootDir, "DIM-1"), true
	case End:
		return filepath.Join(w.rootDir, "DIM1"), true
	}
	return "", false
}

// ProbeDimensions reports which vanilla dimensions exist on disk, judged
// by the presence of their region directory.
func (w *World) ProbeDimensions() []resource.Location {
	var out []resource.Location
	for _, id := range []resource.Location{Overworld, Nether, End} {
		dir, _ := w.DimensionDir(id)
		if fi, err := os.Stat(filepath.Join(dir, "region")); err == nil && fi.IsDir() {
			out = append(out, id)
		}
	}
	return out
}

// NewDimension creates the dimension node for id with the given root
// directory. Creating a dimension that is already loaded is a caller
// bug and panics.
func (w *World) NewDimension(id resource.Location, rootDir string) *Dimension {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dimensions[id]; ok {
		panic(fmt.Sprintf("duplicate dimension %v", id))
	}
	d := &Dimension{
		world:   w,
		id:      id,
		rootDir: rootDir,
		regions: make(map[coord.RegionPos]*Region),
	}
	w.dimensions[id] = d
	return d
}

// OpenDimension creates the dimension node for a vanilla dimension,
// resolving its directory from the world root. Modded dimensions must
// go through NewDimension with an externally resolved directory.
func (w *World) OpenDimension(id resource.Location) (*Dimension, error) {
	dir, ok := w.DimensionDir(id)
	if !ok {
		return nil, fmt.Errorf("dimension %v has no vanilla directory mapping", id)
	}
	return w.NewDimension(id, dir), nil
}

// Dimension returns the loaded dimension for id, if any.
func (w *World) Dimension(id resource.Location) (*Dimension, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	d, ok := w.dimensions[id]
	return d, ok
}

// Dimensions returns all loaded dimensions.
func (w *World) Dimensions() []*Dimension {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Dimension, 0, len(w.dimensions))
	for _, d := range w.dimensions {
		out = append(out, d)
	}
	return out
}

// UnloadDimension removes the dimension for id and drops its subtree.
// Unloading an absent key is a no-op.
func (w *World) UnloadDimension(id resource.Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.dimensions, id)
}

// chunkDecoderFor returns the version-selected payload decoder, probing
// and caching the world version on first use.
func (w *World) chunkDecoderFor() (chunkDecoder, error) {
	w.mu.RLock()
	d := w.decoder
	w.mu.RUnlock()
	if d != nil {
		return d, nil
	}

	v, err := w.Version()
	if err != nil {
		return nil, err
	}
	d, err = decoderFor(v)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.decoder = d
	w.mu.Unlock()
	return d, nil
}

// Dimension is one dimension of a world: a root directory and the
// regions loaded from its region/ subdirectory.
type Dimension struct {
	mu      sync.RWMutex
	world   *World
	id      resource.Location
	rootDir string
	regions map[coord.RegionPos]*Region
}

// ID returns the dimension's identifier.
func (d *Dimension) ID() resource.Location {
	return d.id
}

// RootDir returns the dimension's root directory.
func (d *Dimension) RootDir() string {
	return d.rootDir
}

// RegionDir returns the directory holding the dimension's region files.
func (d *Dimension) RegionDir() string {
	return filepath.Join(d.rootDir, "region")
}

// World returns the world the dimension belongs to.
func (d *Dimension) World() *World {
	return d.world
}

// NewRegion creates the region node at pos. Creating a region that is
// already loaded is a caller bug and panics.
func (d *Dimension) NewRegion(pos coord.RegionPos) *Region {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.regions[pos]; ok {
		panic(fmt.Sprintf("duplicate region %v in dimension %v", pos, d.id))
	}
	r := &Region{
		dimension: d,
		pos:       pos,
		chunks:    make(map[coord.ChunkPos]*Chunk),
	}
	d.regions[pos] = r
	return r
}

// Region returns the loaded region at pos, if any.
func (d *Dimension) Region(pos coord.RegionPos) (*Region, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.regions[pos]
	return r, ok
}

// RegionLoaded reports whether the region at pos is loaded.
func (d *Dimension) RegionLoaded(pos coord.RegionPos) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.regions[pos]
	return ok
}

// Regions returns all loaded regions.
func (d *Dimension) Regions() []*Region {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Region, 0, len(d.regions))
	for _, r := range d.regions {
		out = append(out, r)
	}
	return out
}

// UnloadRegion removes the region at pos and drops its subtree.
func (d *Dimension) UnloadRegion(pos coord.RegionPos) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.regions, pos)
}

// ProbeRegions scans the region directory for region files and returns
// their positions. Files not matching the r.{x}.{z}.mca convention are
// ignored.
func (d *Dimension) ProbeRegions() ([]coord.RegionPos, error) {
	entries, err := os.ReadDir(d.RegionDir())
	if err != nil {
		return nil, fmt.Errorf("probe regions of %v: %w", d.id, err)
	}
	var out []coord.RegionPos
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pos, ok := parseRegionFileName(entry.Name())
		if !ok {
			continue
		}
		out = append(out, pos)
	}
	return out, nil
}

// Block resolves an absolute block position through the loaded graph.
// It reports absence, not an error, when any level of the hierarchy is
// not loaded or the section holds no block there.
func (d *Dimension) Block(pos coord.BlockPos) (resource.BlockState, bool) {
	r, ok := d.Region(pos.RegionOf())
	if !ok {
		return resource.BlockState{}, false
	}
	c, ok := r.Chunk(pos.ChunkOf())
	if !ok {
		return resource.BlockState{}, false
	}
	s, ok := c.Section(pos.Section())
	if !ok {
		return resource.BlockState{}, false
	}
	return s.Block(pos)
}

// parseRegionFileName extracts the region position from a file name of
// the form "r.{x}.{z}.mca".
func parseRegionFileName(name string) (coord.RegionPos, bool) {
	var x, z int32
	var tail string
	n, err := fmt.Sscanf(name, "r.%d.%d.%s", &x, &z, &tail)
	if err != nil || n != 3 || tail != "mca" {
		return coord.RegionPos{}, false
	}
	return coord.RegionPos{X: x, Z: z}, true
}
