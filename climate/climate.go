// Package climate implements the daily climate record, the per-resource-
// unit climate table, the delayed-temperature filter and a phenology
// day-length helper (spec.md §3 "Climate day"/"Climate table", §4.6 day
// loop). Delayed-temperature semantics follow original_source's
// climate.cpp since spec.md does not give the filter's exact time constant.
package climate

import (
	"fmt"
	"math"
	"sort"

	"github.com/cenkalti/backoff"
)

// Day is one day's climate drivers for one resource unit.
type Day struct {
	Year, DOY int // day of year, 1-based
	MinTemp, MaxTemp, MeanTemp float64 // deg C
	Precipitation float64 // mm
	Radiation     float64 // MJ/m2
	VPD           float64 // kPa

	// DelayedTemperature is the tissue/soil temperature computed by an
	// exponential running mean with time constant TempTau, supplementing
	// spec.md's distillation per original_source/climate.cpp.
	DelayedTemperature float64
}

// TempTau is the default delayed-temperature filter time constant, days,
// taken from original_source's climate.cpp default.
const TempTau = 5.0

// ApplyDelayedTemperature updates today's DelayedTemperature from
// yesterday's value using an exponential running mean:
// T_delayed(t) = T_delayed(t-1) + (T_mean(t) - T_delayed(t-1)) / tau
func (d *Day) ApplyDelayedTemperature(previousDelayed, tau float64) {
	if tau <= 0 {
		tau = TempTau
	}
	d.DelayedTemperature = previousDelayed + (d.MeanTemp-previousDelayed)/tau
}

// Table is a full year (or run) of daily records for one resource unit (or
// climate region shared by several), indexed by (year, day-of-year).
// cursor tracks how many simulated years NextYear has already handed out,
// matching spec.md §4.1's "Climate.nextYear" pipeline step.
type Table struct {
	Days []Day

	cursor int
}

// DayOf returns the Day record for (year, doy), or an error if absent.
func (t *Table) DayOf(year, doy int) (*Day, error) {
	for i := range t.Days {
		if t.Days[i].Year == year && t.Days[i].DOY == doy {
			return &t.Days[i], nil
		}
	}
	return nil, fmt.Errorf("climate: no record for year %d day %d", year, doy)
}

// years returns the distinct calendar years present in the table, sorted
// ascending.
func (t *Table) years() []int {
	seen := make(map[int]bool)
	var out []int
	for _, d := range t.Days {
		if !seen[d.Year] {
			seen[d.Year] = true
			out = append(out, d.Year)
		}
	}
	sort.Ints(out)
	return out
}

// DaysOf returns every Day record for the given calendar year, in table
// order.
func (t *Table) DaysOf(year int) []Day {
	var out []Day
	for _, d := range t.Days {
		if d.Year == year {
			out = append(out, d)
		}
	}
	return out
}

// YearDays returns the daily records to use for simulated year (1-based),
// wrapping modulo the number of distinct calendar years loaded in the
// table so a short climate record (spec.md §3's "batchYears") can drive an
// arbitrarily long run.
func (t *Table) YearDays(simulatedYear int) ([]Day, error) {
	years := t.years()
	if len(years) == 0 {
		return nil, fmt.Errorf("climate: table has no days loaded")
	}
	idx := (simulatedYear - 1) % len(years)
	if idx < 0 {
		idx += len(years)
	}
	return t.DaysOf(years[idx]), nil
}

// NextYear advances the table's read cursor by one simulated year and
// returns that year's daily records, matching spec.md §4.1's data-flow
// step "Climate.nextYear → per-RU reset → …".
func (t *Table) NextYear() ([]Day, error) {
	t.cursor++
	return t.YearDays(t.cursor)
}

// BuildDelayedTemperatures fills in DelayedTemperature across an entire
// Table in chronological order, seeding the filter with the first day's
// mean temperature.
func (t *Table) BuildDelayedTemperatures(tau float64) {
	if len(t.Days) == 0 {
		return
	}
	prev := t.Days[0].MeanTemp
	for i := range t.Days {
		t.Days[i].ApplyDelayedTemperature(prev, tau)
		prev = t.Days[i].DelayedTemperature
	}
}

// ReFactor computes the soil/snag decomposition climate factor `re` for a
// day from its delayed temperature and a soil-moisture modifier, per
// spec.md §4.4/§4.5's "climate factor re" reference (formula follows
// original_source's soil decomposition climate response, a capped
// exponential temperature response scaled by moisture availability).
func ReFactor(delayedTemp, soilMoistureAvailability float64) float64 {
	if delayedTemp < -5 {
		return 0
	}
	tempFactor := math.Exp(0.1 * delayedTemp)
	if tempFactor > 4 {
		tempFactor = 4
	}
	moistureFactor := soilMoistureAvailability
	if moistureFactor < 0 {
		moistureFactor = 0
	}
	if moistureFactor > 1 {
		moistureFactor = 1
	}
	return tempFactor * moistureFactor
}

// DayLength returns the photoperiod in hours for the given day-of-year and
// latitude (degrees), using the standard solar-declination approximation —
// the phenology-group helper referenced by spec.md §3.
func DayLength(doy int, latitudeDeg float64) float64 {
	lat := latitudeDeg * math.Pi / 180
	decl := 0.409 * math.Sin(2*math.Pi/365*float64(doy)-1.39)
	cosH := -math.Tan(lat) * math.Tan(decl)
	if cosH < -1 {
		return 24
	}
	if cosH > 1 {
		return 0
	}
	h := math.Acos(cosH)
	return 24 * h / math.Pi
}

// Loader reads a climate Table from an external tabular source (CSV, per
// spec.md §6's "Climate input columns"). The actual column parsing is left
// to the caller-supplied parse func; Loader's job is the retry wrapper
// around transient I/O errors, grounded on the teacher's own use of
// github.com/cenkalti/backoff for transient cloud I/O (cloud.go).
type Loader struct {
	MaxRetries uint64
}

// Load invokes parse, retrying on error with exponential backoff up to
// MaxRetries times after the first attempt (0 means use backoff's default
// elapsed-time cutoff).
func (l *Loader) Load(parse func() (*Table, error)) (*Table, error) {
	var table *Table
	op := func() error {
		t, err := parse()
		if err != nil {
			return err
		}
		table = t
		return nil
	}
	b := backoff.NewExponentialBackOff()
	var bo backoff.BackOff = b
	if l.MaxRetries > 0 {
		bo = backoff.WithMaxRetries(b, l.MaxRetries)
	}
	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("climate: load: %w", err)
	}
	return table, nil
}
