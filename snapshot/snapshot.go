// Package snapshot implements Save/Load of the landscape's trees, each with
// its resource-unit id, to a gob-encoded, version-stamped file. Saplings,
// snags, soil, water and permafrost state are not written, so Load restores
// trees only. Grounded directly
// on the teacher's save.go: a versioned envelope struct, a DataVersion
// string checked on load, and a re-insertion pass that rebuilds derived
// indices after decoding.
package snapshot

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/landscape-sim/forestsim/ru"
	"github.com/landscape-sim/forestsim/tree"
)

// DataVersion is bumped whenever the encoded shape of Envelope changes in a
// way that would make an old snapshot file unreadable, matching the
// teacher's VarGridDataVersion check in save.go.
const DataVersion = "forestsim-snapshot-v1"

// Envelope is the top-level gob-encoded structure written by Save and read
// by Load, generalized from the teacher's versionCells{DataVersion, Cells}.
type Envelope struct {
	DataVersion string
	Year        int
	Trees       []*tree.Tree
	RUIndex     []int // tree i belongs to resource unit RUIndex[i]
}

// Save writes the trees of resourceUnits to w as a single gob stream with no
// magic prefix. It is a whole-landscape snapshot; this package has no
// stand-scoped format.
func Save(w io.Writer, year int, resourceUnits []*ru.ResourceUnit) error {
	var env Envelope
	env.DataVersion = DataVersion
	env.Year = year
	for _, r := range resourceUnits {
		for _, t := range r.AllTrees() {
			env.Trees = append(env.Trees, t)
			env.RUIndex = append(env.RUIndex, r.ID)
		}
	}
	enc := gob.NewEncoder(w)
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("snapshot: save: %w", err)
	}
	return nil
}

// Load reads a gob-encoded Envelope from r and re-inserts every tree into
// the matching resource unit in resourceUnits (indexed by ResourceUnit.ID),
// mirroring the teacher's initFromCells re-insertion loop in save.go. It
// returns the snapshot's recorded year.
func Load(r io.Reader, resourceUnits map[int]*ru.ResourceUnit) (year int, err error) {
	dec := gob.NewDecoder(r)
	var env Envelope
	if err := dec.Decode(&env); err != nil {
		return 0, fmt.Errorf("snapshot: load: %w", err)
	}
	if env.DataVersion != DataVersion {
		return 0, fmt.Errorf("snapshot: file version %q is not compatible with required version %q", env.DataVersion, DataVersion)
	}
	for i, t := range env.Trees {
		rid := env.RUIndex[i]
		unit, ok := resourceUnits[rid]
		if !ok {
			return 0, fmt.Errorf("snapshot: tree %d references unknown resource unit %d", t.ID, rid)
		}
		unit.AddTree(t)
	}
	return env.Year, nil
}
