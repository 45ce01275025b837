// Package hooks defines the external collaborator interfaces spec.md §6
// reserves for disturbance modules, agent-based management, and other
// out-of-scope-to-implement extensions — the core model only needs to call
// through these interfaces, never implement them.
package hooks

import (
	"github.com/landscape-sim/forestsim/ru"
	"github.com/landscape-sim/forestsim/tree"
	"github.com/landscape-sim/forestsim/water"
)

// Landscape is the minimal view of the running model a Disturbance module
// needs at setup time.
type Landscape interface {
	ResourceUnits() []*ru.ResourceUnit
}

// Disturbance is an external module (e.g. bark beetle, wind, fire) that
// plugs into the annual pipeline at the disturbance stage. Implementations
// live outside this module per spec.md's Non-goals; forestsim only defines
// and calls the interface.
type Disturbance interface {
	Name() string
	Version() string
	Description() string
	Setup(Landscape) error
	SetupResourceUnit(*ru.ResourceUnit) error
	YearBegin() error
	Run() error
}

// WaterInterceptor lets an external module adjust a resource unit's
// water-cycle inputs before the daily bucket-model step runs (e.g. a moss
// layer or canopy-gap interception module finer than the core model).
type WaterInterceptor interface {
	CalculateWater(*ru.ResourceUnit, *water.Data) error
}

// TreeDeathObserver is notified whenever a tree leaves the live population,
// letting an external module (e.g. carbon accounting, wildlife habitat
// scoring) react without the core model depending on it.
type TreeDeathObserver interface {
	TreeDeath(*tree.Tree, tree.RemovalType)
}

// Registry holds the collaborators attached to a running Model. A zero-value
// Registry is valid and runs the model headlessly, per spec.md §1.
type Registry struct {
	Disturbances []Disturbance
	WaterInterceptors []WaterInterceptor
	DeathObservers []TreeDeathObserver
}

// NotifyTreeDeath calls every registered TreeDeathObserver.
func (r *Registry) NotifyTreeDeath(t *tree.Tree, reason tree.RemovalType) {
	for _, o := range r.DeathObservers {
		o.TreeDeath(t, reason)
	}
}
