// Package soil implements the ICBM/2N three-pool carbon-nitrogen soil model
// (spec.md §3/§4.5): a labile young-litter pool (yL), a refractory
// deadwood pool (yR), and a slow humus pool (SOM), each tracked as a CNPair
// with a weighted decomposition-parameter average kept consistent across
// additions.
package soil

import "fmt"

// CNPair holds a carbon and nitrogen mass pair plus the decomposition rate
// parameter k associated with the material that contributed them. Adding
// biomass to a CNPair updates k as a mass-weighted average rather than
// overwriting it, matching spec.md §3's CNPair/CNPool definition.
type CNPair struct {
	C, N float64
	K    float64 // weighted decomposition rate parameter, yr^-1
}

// AddBiomass adds carbon c and nitrogen n contributed by material with
// decomposition parameter k, updating p.K as the mass-weighted average of
// the existing and incoming material.
func (p *CNPair) AddBiomass(c, n, k float64) {
	total := p.C + c
	if total <= 0 {
		p.C, p.N, p.K = c, n, k
		return
	}
	p.K = (p.C*p.K + c*k) / total
	p.C += c
	p.N += n
}

// CNRatio returns C/N, or 0 if N is zero.
func (p *CNPair) CNRatio() float64 {
	if p.N == 0 {
		return 0
	}
	return p.C / p.N
}

// CNPool is a collection of CNPairs representing one decomposition pool
// (e.g. young organic matter split by input year), aggregated to a single
// weighted CNPair on demand.
type CNPool struct {
	Parts []CNPair
}

// Add appends a new CNPair contribution to the pool.
func (p *CNPool) Add(c CNPair) { p.Parts = append(p.Parts, c) }

// Aggregate returns the pool's combined CNPair, with K as the mass-weighted
// average across all parts.
func (p *CNPool) Aggregate() CNPair {
	var out CNPair
	for _, part := range p.Parts {
		out.AddBiomass(part.C, part.N, part.K)
	}
	return out
}

// ICBM/2N model constants, from original_source's soil.h defaults.
const (
	DefaultHumificationYoung      = 0.125
	DefaultHumificationRefractory = 0.3
	DefaultReRate                 = 1.0 // climate factor, set per year by climate.ReFactor
)

// Soil is the per-resource-unit ICBM/2N state: the labile young-litter pool
// (yL), the refractory deadwood pool (yR), and the old humus pool (SOM),
// plus cumulative carbon-balance bookkeeping.
type Soil struct {
	Young      CNPair // yL
	Refractory CNPair // yR
	Old        CNPair // SOM

	// Bookkeeping fields supplementing spec.md §3, grounded on
	// original_source's carbon mass-balance outputs (see SPEC_FULL.md §3).
	YearCarbonToAtmosphere  float64
	YearCarbonToDisturbance float64

	HumificationYoung      float64
	HumificationRefractory float64
}

// New returns a Soil with the default ICBM/2N humification rates.
func New() *Soil {
	return &Soil{
		HumificationYoung:      DefaultHumificationYoung,
		HumificationRefractory: DefaultHumificationRefractory,
	}
}

// AddLitter adds carbon/nitrogen from a labile litter input (foliage, fine
// root) to the young pool (yL), per spec.md §4.3's "turnover litter →
// labile CNPool" routing.
func (s *Soil) AddLitter(c, n, k float64) {
	s.Young.AddBiomass(c, n, k)
}

// AddDeadwood adds carbon/nitrogen from a refractory input (branch,
// coarse root, or fallen snag material) to the refractory pool (yR), per
// spec.md §4.3's "turnover wood → refractory CNPool" routing.
func (s *Soil) AddDeadwood(c, n, k float64) {
	s.Refractory.AddBiomass(c, n, k)
}

// Step runs one year of ICBM/2N decomposition: the yL and yR pools each
// decay, splitting between respiration (to atmosphere) and humification
// (to the SOM pool); the SOM pool then decays independently. re is the
// climate decomposition factor for the year (from climate.ReFactor).
func (s *Soil) Step(re float64) error {
	if re < 0 {
		return fmt.Errorf("soil: negative climate factor %v", re)
	}
	ylDecay, ylToOld := decayPool(&s.Young, re, s.HumificationYoung)
	yrDecay, yrToOld := decayPool(&s.Refractory, re, s.HumificationRefractory)

	s.Old.AddBiomass(ylToOld+yrToOld, 0, s.Old.K)
	oldDecay := s.Old.C * s.Old.K * re
	if oldDecay > s.Old.C {
		oldDecay = s.Old.C
	}
	s.Old.C -= oldDecay

	s.YearCarbonToAtmosphere = (ylDecay - ylToOld) + (yrDecay - yrToOld) + oldDecay
	return nil
}

// decayPool runs one pool's annual ICBM decay, returning the total carbon
// decayed and the fraction of it humified into SOM; nitrogen is
// mineralized proportionally and retained on the pool (no atmospheric N
// pool in this model).
func decayPool(p *CNPair, re, humification float64) (decayed, toOld float64) {
	decayed = p.C * p.K * re
	if decayed > p.C {
		decayed = p.C
	}
	if p.C > 0 {
		nFrac := decayed / p.C
		p.N -= p.N * nFrac
	}
	p.C -= decayed
	toOld = decayed * humification
	return decayed, toOld
}

// Disturb removes the given fractions of the refractory (DWD), young/
// labile (litter) and SOM pools' carbon and nitrogen, routing the removed
// carbon to YearCarbonToDisturbance, per spec.md §4.5's disturbance
// bookkeeping and scenario 4's worked example.
func (s *Soil) Disturb(dwdFraction, litterFraction, somFraction float64) error {
	for _, f := range []float64{dwdFraction, litterFraction, somFraction} {
		if f < 0 || f > 1 {
			return fmt.Errorf("soil: disturbance fractions must be within [0,1], got %v", f)
		}
	}
	removed := s.Refractory.C*dwdFraction + s.Young.C*litterFraction + s.Old.C*somFraction
	s.Refractory.C -= s.Refractory.C * dwdFraction
	s.Refractory.N -= s.Refractory.N * dwdFraction
	s.Young.C -= s.Young.C * litterFraction
	s.Young.N -= s.Young.N * litterFraction
	s.Old.C -= s.Old.C * somFraction
	s.Old.N -= s.Old.N * somFraction
	s.YearCarbonToDisturbance += removed
	return nil
}
