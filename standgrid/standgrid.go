// Package standgrid implements the 10m polygon-raster stand/map grid, its
// 4-connected neighbor relation, and a concurrency-safe per-stand lock
// helper (spec.md §4.10, §5). Grounded on the teacher's cellList/cellRef
// doubly-linked index (list.go), generalized here to a stand-id index over
// resource units rather than a tree-owned list.
package standgrid

import (
	"sync"

	"github.com/landscape-sim/forestsim/grid"
)

// reservedStandID is the "no stand" sentinel; it and every negative id
// ("outside stockable area") are reserved, per DESIGN.md's Open Question
// decision #2.
const reservedStandID = 0

// StandGrid maps each 10m cell to a stand id and tracks which resource-unit
// ids fall (even partially) within each stand.
type StandGrid struct {
	Cells *grid.Grid[int]

	mu     sync.RWMutex
	ruByStand map[int]map[int]bool // stand id -> set of resource-unit ids
	locks  map[int]*sync.Mutex    // per-stand lock, lazily created
}

// New allocates an empty stand grid over the given cell grid (already sized
// to the landscape extent at 10m resolution).
func New(cells *grid.Grid[int]) *StandGrid {
	return &StandGrid{
		Cells:     cells,
		ruByStand: make(map[int]map[int]bool),
		locks:     make(map[int]*sync.Mutex),
	}
}

// SetCell assigns cell (x, y) to standID and records ruID as overlapping
// that stand.
func (s *StandGrid) SetCell(x, y, standID, ruID int) {
	s.Cells.Set(x, y, standID)
	if standID <= reservedStandID {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.ruByStand[standID]
	if !ok {
		set = make(map[int]bool)
		s.ruByStand[standID]= set
	}
	set[ruID] = true
}

// Stands returns every stand id present in the grid, excluding the
// reserved ids (<= 0).
func (s *StandGrid) Stands() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, 0, len(s.ruByStand))
	for id := range s.ruByStand {
		out = append(out, id)
	}
	return out
}

// ResourceUnitsIn returns the resource-unit ids overlapping the given stand.
func (s *StandGrid) ResourceUnitsIn(standID int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.ruByStand[standID]
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Neighbors4 returns the stand ids of the 4-connected neighbor cells of
// (x, y), excluding the reserved ids (<= 0) and duplicates.
func (s *StandGrid) Neighbors4(x, y int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, n := range s.Cells.Neighbors4(x, y) {
		id := s.Cells.At(n[0], n[1])
		if id <= reservedStandID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Lock acquires the per-stand lock for standID, creating it on first use.
// This is the concurrency-safe stand operation helper required by spec.md
// §5, so that two goroutines processing resource units in the same stand
// (e.g. a management or disturbance operation scoped to a stand) serialize
// correctly without taking a single landscape-wide lock.
func (s *StandGrid) Lock(standID int) {
	s.mu.Lock()
	l, ok := s.locks[standID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[standID] = l
	}
	s.mu.Unlock()
	l.Lock()
}

// Unlock releases the per-stand lock for standID.
func (s *StandGrid) Unlock(standID int) {
	s.mu.RLock()
	l := s.locks[standID]
	s.mu.RUnlock()
	if l != nil {
		l.Unlock()
	}
}
