// Command anvilprobe inspects an Anvil world save: its version, which
// dimensions exist, which regions a dimension holds, and a per-region
// census of chunks and blocks.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mcvoxel/anvil"
	"github.com/mcvoxel/anvil/coord"
	"github.com/mcvoxel/anvil/resource"
)

func main() {
	var dimensionID string

	rootCmd := &cobra.Command{
		Use:          "anvilprobe",
		Short:        "Inspect Anvil world saves",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&dimensionID, "dimension", "d", "minecraft:overworld",
		"dimension to inspect")

	infoCmd := &cobra.Command{
		Use:   "info <world>",
		Short: "Print the world version and the dimensions present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}

	regionsCmd := &cobra.Command{
		Use:   "regions <world>",
		Short: "List the region files of a dimension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegions(args[0], dimensionID)
		},
	}

	censusCmd := &cobra.Command{
		Use:   "census <world> <region x,z>",
		Short: "Decode every chunk of a region and tally its block states",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := coord.ParseRegionPos(args[1])
			if err != nil {
				return err
			}
			return runCensus(args[0], dimensionID, pos)
		},
	}

	rootCmd.AddCommand(infoCmd, regionsCmd, censusCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInfo(root string) error {
	w := anvil.NewWorld(root)

	v, err := w.Version()
	if err != nil {
		return err
	}
	color.Green("world: %s", root)
	fmt.Printf("version: %v\n", v)

	for _, id := range w.ProbeDimensions() {
		d, err := w.OpenDimension(id)
		if err != nil {
			return err
		}
		regions, err := d.ProbeRegions()
		if err != nil {
			return err
		}
		fmt.Printf("dimension %v: %d region files\n", id, len(regions))
	}
	return nil
}

func runRegions(root, dimensionID string) error {
	d, err := openDimension(root, dimensionID)
	if err != nil {
		return err
	}
	positions, err := d.ProbeRegions()
	if err != nil {
		return err
	}
	for _, pos := range positions {
		r := d.NewRegion(pos)
		a, err := r.LoadAnvil()
		if err != nil {
			color.Red("region %v: %v", pos, err)
			continue
		}
		fmt.Printf("region %v: %d chunks\n", pos, len(a.Chunks()))
	}
	return nil
}

func runCensus(root, dimensionID string, pos coord.RegionPos) error {
	d, err := openDimension(root, dimensionID)
	if err != nil {
		return err
	}
	r := d.NewRegion(pos)
	a, err := r.LoadAnvil()
	if err != nil {
		return err
	}

	present := a.Chunks()
	bar := progressbar.Default(int64(len(present)), "decoding chunks")

	census := make(map[resource.BlockState]int)
	var failed int
	for _, cpos := range present {
		chunk, err := r.LoadChunk(cpos)
		if err != nil {
			failed++
			bar.Add(1)
			continue
		}
		for _, s := range chunk.Sections() {
			for _, bpos := range cpos.SectionBlocks(s.Y()) {
				if state, ok := s.Block(bpos); ok {
					census[state]++
				}
			}
		}
		r.UnloadChunk(cpos)
		bar.Add(1)
	}

	color.Green("region %v: %d chunks decoded, %d failed", pos, len(present)-failed, failed)
	states := make([]resource.BlockState, 0, len(census))
	for state := range census {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		if census[states[i]] != census[states[j]] {
			return census[states[i]] > census[states[j]]
		}
		return states[i].String() < states[j].String()
	})
	for _, state := range states {
		fmt.Printf("%10d  %v\n", census[state], state)
	}
	return nil
}

func openDimension(root, dimensionID string) (*anvil.Dimension, error) {
	w := anvil.NewWorld(root)
	id := resource.ParseLocation(dimensionID)
	d, err := w.OpenDimension(id)
	if err != nil {
		return nil, fmt.Errorf("open dimension %q: %w", dimensionID, err)
	}
	return d, nil
}
