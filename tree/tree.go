// Package tree implements the individual tree state and the per-tree
// annual growth pipeline: light response, 3-PG production, biomass
// partitioning, allometric growth, mortality and senescence turnover.
package tree

import (
	"fmt"
	"math"

	"github.com/landscape-sim/forestsim/species"
)

// Flag bits record per-tree state that does not warrant its own field,
// mirroring the teacher's bitset-style Cell flags (framework.go).
type Flag uint8

const (
	FlagCropTree Flag = 1 << iota
	FlagCropCompetitor
	FlagDead
	FlagHarvested
	FlagDeadBarkBeetle
	FlagDeadWind
	FlagDeadFire
)

// RemovalType classifies how a tree left the live population, used by
// hooks.TreeDeathObserver.
type RemovalType int

const (
	RemovalNone RemovalType = iota
	RemovalDeath
	RemovalHarvest
	RemovalDisturbance
)

// Tree is a single individual, owned by exactly one ResourceUnit at a time.
// Fields carry `desc`/`units` struct tags, grounded on the teacher's
// reflection-based field lookup (framework.go's Cell.getValue);
// expr.TreeWrapper exposes fields through an explicit switch and does not
// read the tags.
type Tree struct {
	ID      uint64
	Species *species.Species

	X, Y float64 `desc:"stem position" units:"m"`

	DBH    float64 `desc:"diameter at breast height" units:"cm"`
	Height float64 `desc:"tree height" units:"m"`
	Age    int     `desc:"tree age" units:"years"`

	StemMass   float64 `desc:"stem biomass" units:"kg"`
	FoliageMass float64 `desc:"foliage biomass" units:"kg"`
	RootMass   float64 `desc:"root biomass" units:"kg"`
	BranchMass float64 `desc:"branch biomass" units:"kg"`

	// NPPReserve is tracked separately from StemMass; see DESIGN.md "Open
	// Question decisions" #3.
	NPPReserve float64 `desc:"non-structural carbohydrate reserve" units:"kg"`

	LeafArea float64 `desc:"total leaf area" units:"m2"`

	LightResponse float64 `desc:"realized light availability at the crown" units:"fraction"`

	Flags Flag

	StandID int
}

// IsDead reports whether the tree has left the live population.
func (t *Tree) IsDead() bool { return t.Flags&FlagDead != 0 }

// MarkRemoved flags the tree as dead/removed for the given reason. The tree
// remains in its ResourceUnit's vector until the next compaction, per
// spec.md's Tree invariant.
func (t *Tree) MarkRemoved(r RemovalType) {
	t.Flags |= FlagDead
	switch r {
	case RemovalHarvest:
		t.Flags |= FlagHarvested
	}
}

// AbovegroundBiomass returns stem + branch + foliage mass, not including the
// NPP reserve (see DESIGN.md Open Question #3).
func (t *Tree) AbovegroundBiomass() float64 {
	return t.StemMass + t.BranchMass + t.FoliageMass
}

// TotalStemBiomass returns StemMass plus NPPReserve, the mass that
// snag.AddDeadTree routes into the snag pools for a dead stem.
func (t *Tree) TotalStemBiomass() float64 {
	return t.StemMass + t.NPPReserve
}

// GrowthStep is one stage of the annual per-tree growth pipeline (spec.md
// §4.3), generalized from the teacher's per-cell CellManipulator pipeline
// (run.go's Calculations) from "grid cell" to "tree".
type GrowthStep func(t *Tree, env *Environment) error

// Environment carries the per-resource-unit, per-year inputs a tree's
// growth pipeline needs, decoupling tree.go from the ru package (which
// imports tree) to avoid an import cycle.
type Environment struct {
	AvailableLightFraction float64 // from the light engine, 0..1
	GrowingDegreeDays      float64
	SoilWaterAvailable     float64 // response multiplier, 0..1
	VPDResponse            float64 // response multiplier, 0..1
	NitrogenResponse       float64 // response multiplier, 0..1

	// InterceptedArea is this tree's share of the resource unit's
	// Beer-Lambert-bounded effective light-interception area (spec.md §4.3
	// step 2's calculateInterceptedArea), set by RUProduction ahead of
	// ProductionStep so stand density caps per-tree production.
	InterceptedArea float64 // m2
}

// beerLambertK is the canopy light-extinction coefficient used to bound a
// resource unit's total effective interception area by its leaf area
// index, per spec.md §4.3 step 2.
const beerLambertK = 0.5

// RUProduction computes, for every live tree on a resource unit, its share
// of the unit's Beer-Lambert-bounded effective light-interception area
// (spec.md §4.3 step 2's calculateInterceptedArea): the unit's total
// stocked area is first capped by 1-exp(-k*LAI), then split across trees
// in proportion to each tree's leaf-area-weighted light response, so a
// denser stand leaves less production-limiting area per tree even when
// LeafArea alone hasn't changed.
func RUProduction(trees []*Tree, stockedAreaM2, lai float64) map[*Tree]float64 {
	shares := make(map[*Tree]float64, len(trees))
	var sumLALR float64
	for _, t := range trees {
		sumLALR += t.LeafArea * t.LightResponse
	}
	if sumLALR <= 0 {
		return shares
	}
	effectiveArea := stockedAreaM2 * (1 - math.Exp(-beerLambertK*lai))
	for _, t := range trees {
		shares[t] = (t.LeafArea * t.LightResponse / sumLALR) * effectiveArea
	}
	return shares
}

// LightResponseStep sets t.LightResponse from the environment's available
// light fraction, attenuated by the species' shade tolerance class.
func LightResponseStep(t *Tree, env *Environment) error {
	if t.Species == nil {
		return fmt.Errorf("tree: growth step on tree %d with no species", t.ID)
	}
	tolerance := 1.0 - 0.15*float64(t.Species.LightResponseClass-1)
	lr := env.AvailableLightFraction * tolerance
	if lr < 0 {
		lr = 0
	}
	if lr > 1 {
		lr = 1
	}
	t.LightResponse = lr
	return nil
}

// ProductionStep runs a simplified 3-PG gross-primary-production estimate,
// scaled by the realized environmental response multipliers, and adds the
// result to the tree's NPP reserve ahead of partitioning.
func ProductionStep(t *Tree, env *Environment) error {
	response := env.SoilWaterAvailable * env.VPDResponse * env.NitrogenResponse
	if response < 0 {
		response = 0
	}
	gpp := env.InterceptedArea * t.Species.SpecificLeafArea * response * 0.02
	npp := gpp * 0.47 // constant NPP/GPP ratio (the remaining 0.53 is autotrophic respiration), per spec.md's 3-PG summary
	t.NPPReserve += npp
	return nil
}

// PartitionStep allocates the accumulated NPP reserve to foliage, branch,
// root and stem pools using fixed allocation fractions, then drains the
// reserve. Ordering matches spec.md §4.3: light response -> production ->
// partitioning -> allometric growth -> mortality -> senescence turnover.
func PartitionStep(t *Tree, env *Environment) error {
	npp := t.NPPReserve
	if npp <= 0 {
		return nil
	}
	const (
		foliageFrac = 0.15
		branchFrac  = 0.15
		rootFrac    = 0.30
		stemFrac    = 0.40
	)
	t.FoliageMass += npp * foliageFrac
	t.BranchMass += npp * branchFrac
	t.RootMass += npp * rootFrac
	t.StemMass += npp * stemFrac
	t.NPPReserve = 0
	return nil
}

// AllometricGrowthStep updates DBH and Height from the new StemMass using
// the species' height-diameter relationship, keeping the two consistent
// after partitioning adds biomass.
func AllometricGrowthStep(t *Tree, env *Environment) error {
	if t.StemMass <= 0 {
		return nil
	}
	// Simple power-law diameter-biomass inversion: StemMass = 0.06*DBH^3, the
	// same fixed constants for every species; Height then follows the
	// species' linear HD relation.
	t.DBH = cubeRoot(t.StemMass / 0.06)
	t.Height = t.Species.HDRatioIntercept + t.Species.HDRatioSlope*t.DBH
	t.Age++
	return nil
}

func cubeRoot(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Cbrt(x)
}

// MortalityStep applies a stochastic stress-mortality check and an
// age-based hard cutoff, marking the tree dead via MarkRemoved rather than
// removing it from its ResourceUnit's vector immediately (spec.md's Tree
// invariant: dead trees stay until the RU's vector is compacted).
func MortalityStep(t *Tree, env *Environment, roll float64) error {
	if t.Species.MaxAge > 0 && t.Age >= t.Species.MaxAge {
		t.MarkRemoved(RemovalDeath)
		return nil
	}
	stressFactor := 1.0
	if env.SoilWaterAvailable < 0.3 {
		stressFactor = 2.0
	}
	if roll < t.Species.ProbStressMortality*stressFactor {
		t.MarkRemoved(RemovalDeath)
	}
	return nil
}

// SenescenceTurnoverStep moves an age-weighted fraction of foliage and fine
// root mass to litter, averaged per spec.md's "aging-weighted average"
// requirement, returning the turned-over mass for the caller to route into
// the soil's yearly litter input.
func SenescenceTurnoverStep(t *Tree, env *Environment) (litterFoliage, litterRoot float64) {
	turnoverRate := 0.1
	if !t.Species.Deciduous {
		turnoverRate = 1.0 / (5.0 + float64(t.Age)/20.0)
		if turnoverRate > 0.3 {
			turnoverRate = 0.3
		}
	} else {
		turnoverRate = 1.0 // deciduous trees drop all foliage annually
	}
	litterFoliage = t.FoliageMass * turnoverRate
	litterRoot = t.RootMass * 0.2
	t.FoliageMass -= litterFoliage
	t.RootMass -= litterRoot
	return
}
