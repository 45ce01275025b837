// Package water implements the daily water-balance bucket model (spec.md
// §4.6): snow accumulation/melt, canopy interception, evapotranspiration
// and a single-layer soil moisture bucket, plus an optional permafrost
// thermal/freeze-thaw submodel for boreal sites.
package water

import "fmt"

// Data is the per-resource-unit water-cycle state, carried across days and
// years.
type Data struct {
	SnowPack       float64 // mm water equivalent
	CanopyStorage  float64 // mm
	SoilMoisture   float64 // mm, current content of the soil bucket
	FieldCapacity  float64 // mm, bucket size
	WiltingPoint   float64 // mm, below which plant water uptake stops

	Permafrost *Permafrost // nil if not simulated for this resource unit
}

// NewData returns a Data with the given bucket size parameters, a full soil
// bucket (SoilMoisture = fieldCapacity) and no snow or canopy storage.
func NewData(fieldCapacity, wiltingPoint float64) *Data {
	return &Data{FieldCapacity: fieldCapacity, WiltingPoint: wiltingPoint, SoilMoisture: fieldCapacity}
}

// DayInputs carries one day's climate drivers into the water-cycle step.
type DayInputs struct {
	Precipitation float64 // mm
	Temperature   float64 // deg C, mean daily
	PotentialET   float64 // mm, reference evapotranspiration
	LAI           float64 // canopy leaf area index, for interception capacity
}

// StepDay runs one day of the bucket model, returning the realized
// evapotranspiration and the soil water availability fraction (0..1) used
// by tree.Environment.SoilWaterAvailable.
func (d *Data) StepDay(in DayInputs) (et, availability float64, err error) {
	if in.Precipitation < 0 {
		return 0, 0, fmt.Errorf("water: negative precipitation %v", in.Precipitation)
	}

	rain, snowfall := in.Precipitation, 0.0
	if in.Temperature < 0 {
		snowfall = in.Precipitation
		rain = 0
	}
	d.SnowPack += snowfall

	melt := 0.0
	if in.Temperature > 0 && d.SnowPack > 0 {
		melt = 2.5 * in.Temperature // degree-day melt factor, mm/degC/day
		if melt > d.SnowPack {
			melt = d.SnowPack
		}
		d.SnowPack -= melt
	}

	interceptionCapacity := 0.2 * in.LAI
	intercepted := rain
	if intercepted > interceptionCapacity-d.CanopyStorage {
		intercepted = interceptionCapacity - d.CanopyStorage
	}
	if intercepted < 0 {
		intercepted = 0
	}
	d.CanopyStorage += intercepted
	throughfall := rain - intercepted + melt

	// Canopy storage evaporates first, then soil ET up to potential ET.
	canopyEvap := d.CanopyStorage
	if canopyEvap > in.PotentialET {
		canopyEvap = in.PotentialET
	}
	d.CanopyStorage -= canopyEvap
	remainingDemand := in.PotentialET - canopyEvap

	d.SoilMoisture += throughfall
	if d.SoilMoisture > d.FieldCapacity {
		d.SoilMoisture = d.FieldCapacity // excess is drainage, not tracked further
	}

	available := d.SoilMoisture - d.WiltingPoint
	if available < 0 {
		available = 0
	}
	soilEvap := remainingDemand
	if soilEvap > available {
		soilEvap = available
	}
	d.SoilMoisture -= soilEvap

	et = canopyEvap + soilEvap

	span := d.FieldCapacity - d.WiltingPoint
	if span <= 0 {
		availability = 1
	} else {
		availability = (d.SoilMoisture - d.WiltingPoint) / span
		if availability < 0 {
			availability = 0
		}
		if availability > 1 {
			availability = 1
		}
	}

	if d.Permafrost != nil {
		d.Permafrost.StepDay(in.Temperature, d.SnowPack)
	}

	return et, availability, nil
}

// Permafrost is the optional boreal-site thermal/freeze-thaw submodel
// (spec.md §4.6).
type Permafrost struct {
	ActiveLayerDepth float64 // m, current thaw depth
	MaxActiveLayerDepth float64
	MossInsulationFactor float64 // 0..1, reduces effective thaw degree-days
	ThawingDegreeDaysAccum float64
}

// NewPermafrost returns a Permafrost submodel with the given site maximum
// active-layer depth and moss insulation factor.
func NewPermafrost(maxDepth, mossFactor float64) *Permafrost {
	return &Permafrost{MaxActiveLayerDepth: maxDepth, MossInsulationFactor: mossFactor}
}

// StepDay updates the active layer depth from the day's temperature and
// insulating snow pack, using a simple square-root-of-thawing-degree-days
// (Stefan) approximation.
func (p *Permafrost) StepDay(temperature, snowPack float64) {
	if temperature <= 0 {
		// Freezing; active layer shrinks toward zero, damped by snow
		// insulation (snow slows heat loss, so refreeze is slower under pack).
		insulation := 1.0
		if snowPack > 0 {
			insulation = 0.3
		}
		p.ActiveLayerDepth -= 0.01 * insulation
		if p.ActiveLayerDepth < 0 {
			p.ActiveLayerDepth = 0
			p.ThawingDegreeDaysAccum = 0
		}
		return
	}
	effectiveTemp := temperature * (1 - p.MossInsulationFactor)
	p.ThawingDegreeDaysAccum += effectiveTemp
	depth := 0.02 * sqrtApprox(p.ThawingDegreeDaysAccum)
	if depth > p.MaxActiveLayerDepth {
		depth = p.MaxActiveLayerDepth
	}
	p.ActiveLayerDepth = depth
}

func sqrtApprox(x float64) float64 {
	if x <= 0 {
		return 0
	}
	guess := x
	for i := 0; i < 12; i++ {
		guess = 0.5 * (guess + x/guess)
	}
	return guess
}
