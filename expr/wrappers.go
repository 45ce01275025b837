package expr

import (
	"fmt"

	"github.com/landscape-sim/forestsim/ru"
	"github.com/landscape-sim/forestsim/sapling"
	"github.com/landscape-sim/forestsim/tree"
)

// TreeWrapper exposes a tree.Tree's fields to the expression engine.
type TreeWrapper struct{ T *tree.Tree }

var treeVars = []string{"dbh", "height", "age", "stemmass", "foliagemass", "rootmass", "leafarea", "lightresponse"}

// Names returns the variables TreeWrapper exposes.
func (w TreeWrapper) Names() []string { return treeVars }

// Value returns the named variable's value for the wrapped tree.
func (w TreeWrapper) Value(name string) (float64, error) {
	switch name {
	case "dbh":
		return w.T.DBH, nil
	case "height":
		return w.T.Height, nil
	case "age":
		return float64(w.T.Age), nil
	case "stemmass":
		return w.T.StemMass, nil
	case "foliagemass":
		return w.T.FoliageMass, nil
	case "rootmass":
		return w.T.RootMass, nil
	case "leafarea":
		return w.T.LeafArea, nil
	case "lightresponse":
		return w.T.LightResponse, nil
	default:
		return 0, fmt.Errorf("expr: tree has no variable %q", name)
	}
}

// RUWrapper exposes a ru.ResourceUnit's aggregate fields to the expression
// engine, used for stand/RU-level filters (e.g. a management trigger
// expression over stocking).
type RUWrapper struct{ R *ru.ResourceUnit }

var ruVars = []string{"stockablearea", "treecount", "soilc", "soiln"}

// Names returns the variables RUWrapper exposes.
func (w RUWrapper) Names() []string { return ruVars }

// Value returns the named variable's value for the wrapped resource unit.
func (w RUWrapper) Value(name string) (float64, error) {
	switch name {
	case "stockablearea":
		return w.R.StockableArea(), nil
	case "treecount":
		return float64(len(w.R.LiveTrees())), nil
	case "soilc":
		return w.R.Soil.Young.C + w.R.Soil.Old.C, nil
	case "soiln":
		return w.R.Soil.Young.N + w.R.Soil.Old.N, nil
	default:
		return 0, fmt.Errorf("expr: resource unit has no variable %q", name)
	}
}

// SaplingWrapper exposes a sapling.Cohort's fields to the expression engine.
type SaplingWrapper struct{ S *sapling.Cohort }

var saplingVars = []string{"height", "age", "representedstems", "browsingpressure"}

// Names returns the variables SaplingWrapper exposes.
func (w SaplingWrapper) Names() []string { return saplingVars }

// Value returns the named variable's value for the wrapped cohort.
func (w SaplingWrapper) Value(name string) (float64, error) {
	switch name {
	case "height":
		return w.S.Height, nil
	case "age":
		return float64(w.S.Age), nil
	case "representedstems":
		return w.S.RepresentedStems, nil
	case "browsingpressure":
		return w.S.BrowsingPressure, nil
	default:
		return 0, fmt.Errorf("expr: sapling cohort has no variable %q", name)
	}
}

// DeadTreeWrapper exposes a dead tree.Tree's fields to the expression
// engine (e.g. for a snag-selection filter expression).
type DeadTreeWrapper struct{ T *tree.Tree }

var deadTreeVars = []string{"dbh", "height", "age", "stemmass"}

// Names returns the variables DeadTreeWrapper exposes.
func (w DeadTreeWrapper) Names() []string { return deadTreeVars }

// Value returns the named variable's value for the wrapped dead tree.
func (w DeadTreeWrapper) Value(name string) (float64, error) {
	switch name {
	case "dbh":
		return w.T.DBH, nil
	case "height":
		return w.T.Height, nil
	case "age":
		return float64(w.T.Age), nil
	case "stemmass":
		return w.T.StemMass, nil
	default:
		return 0, fmt.Errorf("expr: dead tree has no variable %q", name)
	}
}
