package format

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
)

// ErrNoVersion is returned when level.dat carries no parsable version.
var ErrNoVersion = errors.New("level.dat has no parsable version")

// LevelDat is the decoded top-level world metadata file.
type LevelDat struct {
	Data  LevelData  `nbt:"Data"`
	Forge *ForgeData `nbt:"fml"`
}

// LevelData is the vanilla portion of level.dat.
type LevelData struct {
	LevelName string `nbt:"LevelName"`
	Time      int64  `nbt:"Time"`

	SpawnX int32 `nbt:"SpawnX"`
	SpawnY int32 `nbt:"SpawnY"`
	SpawnZ int32 `nbt:"SpawnZ"`

	ServerBrands []string    `nbt:"ServerBrands"`
	Version      VersionInfo `nbt:"Version"`
}

// VersionInfo is the game version record inside level.dat.
type VersionInfo struct {
	ID       int32  `nbt:"Id"`
	Name     string `nbt:"Name"`
	Snapshot byte   `nbt:"Snapshot"`
}

// ForgeData is the modded-world metadata written under the "fml" key.
type ForgeData struct {
	Registries     map[string]ForgeRegistry `nbt:"Registries"`
	LoadingModList []ForgeMod               `nbt:"LoadingModList"`
}

// ForgeRegistry is one id registry snapshot.
type ForgeRegistry struct {
	IDs []ForgeRegistryEntry `nbt:"ids"`
}

// ForgeRegistryEntry maps a registered name to its numeric id.
type ForgeRegistryEntry struct {
	Name string `nbt:"K"`
	ID   int32  `nbt:"V"`
}

// ForgeMod is one entry of the loading mod list.
type ForgeMod struct {
	ModID      string `nbt:"ModId"`
	ModVersion string `nbt:"ModVersion"`
}

// ReadLevelDat decodes the gzip-compressed level.dat of a world.
func ReadLevelDat(worldRoot string) (*LevelDat, error) {
	path := filepath.Join(worldRoot, "level.dat")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level.dat: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: gzip: %w", path, err)
	}
	defer gz.Close()

	var level LevelDat
	if _, err := nbt.NewDecoder(gz).Decode(&level); err != nil {
		return nil, fmt.Errorf("%s: decode nbt: %w", path, err)
	}
	return &level, nil
}

// Version is a dotted game version such as 1.18.2.
type Version struct {
	Major, Minor, Patch int
}

// String implements fmt.Stringer.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// ParseVersion parses "major.minor" or "major.minor.patch"; the patch
// defaults to 0 when absent.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrNoVersion, s)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNoVersion, s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// IdentifyVersion probes a world's level.dat for the game version that
// wrote it, used to pick a chunk payload decoder.
func IdentifyVersion(worldRoot string) (Version, error) {
	level, err := ReadLevelDat(worldRoot)
	if err != nil {
		return Version{}, err
	}
	name := level.Data.Version.Name
	if name == "" {
		return Version{}, ErrNoVersion
	}
	return ParseVersion(name)
}
