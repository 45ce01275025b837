// Package output implements the row-buffered tabular output tables,
// customagg aggregation reductions, and the SVD forest-state classifier
// (spec.md §4.9). The declared-column table shape is grounded directly on
// the teacher's CTMData.Data map of {Dims, Description, Units, Data}
// structs (vargrid.go), generalized from "gridded variable" to "output
// table column".
package output

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnType is the declared type of an output column.
type ColumnType int

const (
	TypeFloat ColumnType = iota
	TypeInt
	TypeString
)

// Column describes one output table column, mirroring the teacher's
// {Description, Units} metadata pair kept alongside each CTMData variable.
type Column struct {
	Name        string
	Description string
	Units       string
	Type        ColumnType
}

// Table is a row-buffered output table: rows accumulate in memory for the
// current year and are flushed by the caller (e.g. to CSV) at a
// configurable interval, matching spec.md §4.9's row-buffered requirement.
type Table struct {
	Columns []Column
	rows    [][]interface{}
}

// NewTable declares a table with the given columns.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols}
}

// AddRow appends a row. len(values) must equal len(t.Columns).
func (t *Table) AddRow(values []interface{}) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("output: row has %d values, table %q has %d columns", len(values), "table", len(t.Columns))
	}
	t.rows = append(t.rows, values)
	return nil
}

// Rows returns the currently buffered rows.
func (t *Table) Rows() [][]interface{} { return t.rows }

// Flush clears the buffered rows, returning what was buffered so the caller
// can write it out.
func (t *Table) Flush() [][]interface{} {
	out := t.rows
	t.rows = nil
	return out
}

// Reduction is a customagg aggregation function name, per spec.md §4.9.
type Reduction string

const (
	ReduceMean Reduction = "mean"
	ReduceSum  Reduction = "sum"
	ReduceSD   Reduction = "sd"
	ReduceP5   Reduction = "p5"
	ReduceP25  Reduction = "p25"
	ReduceP50  Reduction = "p50"
	ReduceP75  Reduction = "p75"
	ReduceP95  Reduction = "p95"
)

// Aggregate reduces values according to the named reduction, using
// gonum/stat for quantiles and gonum/floats for sum/mean, matching the
// teacher's own use of gonum/floats in vargrid.go.
func Aggregate(reduction Reduction, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	switch reduction {
	case ReduceSum:
		return floats.Sum(values), nil
	case ReduceMean:
		return stat.Mean(values, nil), nil
	case ReduceSD:
		return stat.StdDev(values, nil), nil
	case ReduceP5, ReduceP25, ReduceP50, ReduceP75, ReduceP95:
		sorted := append([]float64(nil), values...)
		floats.Sort(sorted)
		q := map[Reduction]float64{ReduceP5: 0.05, ReduceP25: 0.25, ReduceP50: 0.5, ReduceP75: 0.75, ReduceP95: 0.95}[reduction]
		return stat.Quantile(q, stat.Empirical, sorted, nil), nil
	default:
		return 0, fmt.Errorf("output: unknown reduction %q", reduction)
	}
}
