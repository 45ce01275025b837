// Package snag implements standing dead wood dynamics (spec.md §4.4): three
// DBH-classed standing-snag cohorts that merge, decay and fall each year,
// a bounded "other wood" buffer for branch/root debris, and the individually
// tracked DeadTree list for large dead stems of management/ecological
// interest.
package snag

import (
	"fmt"
	"math"

	"github.com/landscape-sim/forestsim/soil"
	"github.com/landscape-sim/forestsim/species"
	"github.com/landscape-sim/forestsim/tree"
)

// DBHClass indexes the three standing-snag cohorts.
type DBHClass int

const (
	ClassSmall DBHClass = iota
	ClassMedium
	ClassLarge
	numClasses
)

// dbhClassFor buckets a tree's DBH into one of the three snag cohorts.
func dbhClassFor(dbh float64) DBHClass {
	switch {
	case dbh < 20:
		return ClassSmall
	case dbh < 50:
		return ClassMedium
	default:
		return ClassLarge
	}
}

// Cohort is one DBH-classed standing-snag pool. Ksw and Halflife are
// carbon-/stem-weighted averages across every stem merged into the cohort
// (spec.md §4.4 step 1), not fixed constants, since a cohort typically
// pools stems from more than one species.
type Cohort struct {
	Class     DBHClass
	C, N      float64 // standing dead wood carbon/nitrogen
	Ksw       float64 // carbon-weighted decay rate, yr^-1
	Halflife  float64 // stem-weighted fall half-life, yr
	StemCount float64 // stems merged into the cohort, used for Halflife weighting
}

// mergeDeadStem merges a newly dead stem's carbon/nitrogen into the
// cohort, updating Ksw as a carbon-weighted average and Halflife as a
// stem-count-weighted average, per spec.md §4.4 step 1.
func (co *Cohort) mergeDeadStem(sp *species.Species, c, n, stems float64) {
	totalC := co.C + c
	if totalC <= 0 {
		co.Ksw = sp.SnagKsw
	} else {
		co.Ksw = (co.C*co.Ksw + c*sp.SnagKsw) / totalC
	}
	totalStems := co.StemCount + stems
	if totalStems <= 0 {
		co.Halflife = sp.SnagHalflife
	} else {
		co.Halflife = (co.StemCount*co.Halflife + stems*sp.SnagHalflife) / totalStems
	}
	co.StemCount = totalStems
	co.C += c
	co.N += n
}

// otherWoodSlots is the number of annual cohorts kept in the "other wood"
// fallen-debris buffer, per spec.md §4.4.
const otherWoodSlots = 5

// Snag is the per-resource-unit snag state.
type Snag struct {
	Cohorts    [numClasses]Cohort
	OtherWood  [otherWoodSlots]soil.CNPair // ring buffer; between Steps index 0 is empty and index 1 = most recent year
	DeadTrees  []*tree.Tree                 // individually tracked large dead stems
}

// New returns an empty Snag; each cohort's Ksw/Halflife are populated as
// dead stems are merged in (mergeDeadStem).
func New() *Snag {
	s := &Snag{}
	for i := range s.Cohorts {
		s.Cohorts[i] = Cohort{Class: DBHClass(i)}
	}
	return s
}

// AddDeadTree routes a newly dead tree into the snag system: trees above the
// large-class threshold are tracked individually in DeadTrees; smaller trees
// are merged into their DBH-classed standing cohort.
func (s *Snag) AddDeadTree(t *tree.Tree, trackIndividually bool) {
	if trackIndividually && dbhClassFor(t.DBH) == ClassLarge {
		s.DeadTrees = append(s.DeadTrees, t)
		return
	}
	s.Merge(t.Species, t.DBH, t.TotalStemBiomass()*0.5, t.TotalStemBiomass()*0.005, 1)
}

// Merge adds carbon/nitrogen from a newly dead stem into the standing
// cohort matching its DBH, updating the cohort's weighted Ksw/Halflife from
// the stem's species.
func (s *Snag) Merge(sp *species.Species, dbh, c, n, stems float64) {
	class := dbhClassFor(dbh)
	s.Cohorts[class].mergeDeadStem(sp, c, n, stems)
}

// Step runs one year of snag dynamics (spec.md §4.4 steps 2-3): each
// cohort's carbon decays via survive-rate = exp(-Ksw*re) (lost carbon goes
// to atmosphere, nitrogen is retained so the CN ratio rises), then a
// fraction 1-exp(rate) with rate = -ln2/(halflife/re) falls into the
// "other wood" buffer — the smallest class's fall rate is doubled. The
// buffer's oldest slot empties into litterC/N. re is the climate
// decomposition factor for the year.
func (s *Snag) Step(re float64) (carbonToAtmosphere, litterC, litterN float64, err error) {
	if re < 0 {
		return 0, 0, 0, fmt.Errorf("snag: negative climate factor %v", re)
	}
	for i := range s.Cohorts {
		co := &s.Cohorts[i]
		if co.C <= 0 {
			continue
		}
		survive := math.Exp(-co.Ksw * re)
		decay := co.C * (1 - survive)
		co.C -= decay
		carbonToAtmosphere += decay

		if co.Halflife <= 0 {
			continue
		}
		rate := -math.Ln2 / (co.Halflife / re)
		if co.Class == ClassSmall {
			rate *= 2
		}
		fallFraction := 1 - math.Exp(rate)
		fallC := co.C * fallFraction
		fallN := co.N * fallFraction
		co.C -= fallC
		co.N -= fallN
		s.OtherWood[0].C += fallC
		s.OtherWood[0].N += fallN
	}

	// Rotate the ring buffer: the oldest slot (index otherWoodSlots-1) empties
	// into litter, everything shifts one slot older, slot 0 becomes the new
	// empty "this year" bucket.
	oldest := s.OtherWood[otherWoodSlots-1]
	litterC, litterN = oldest.C, oldest.N
	for i := otherWoodSlots - 1; i > 0; i-- {
		s.OtherWood[i] = s.OtherWood[i-1]
	}
	s.OtherWood[0] = soil.CNPair{}

	return carbonToAtmosphere, litterC, litterN, nil
}

// CompactDeadTrees removes dead trees that have fully decomposed (simplified
// here as: removed by the caller once their output-reporting window has
// elapsed), matching the Tree invariant that dead entries persist until an
// explicit compaction pass.
func (s *Snag) CompactDeadTrees(keep func(*tree.Tree) bool) {
	out := s.DeadTrees[:0]
	for _, t := range s.DeadTrees {
		if keep(t) {
			out = append(out, t)
		}
	}
	s.DeadTrees = out
}
