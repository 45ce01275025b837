package hooks

import (
	"testing"

	"github.com/landscape-sim/forestsim/tree"
)

type recordingObserver struct{ calls int }

func (r *recordingObserver) TreeDeath(t *tree.Tree, reason tree.RemovalType) { r.calls++ }

func TestNotifyTreeDeathCallsEveryObserver(t *testing.T) {
	var reg Registry
	a, b := &recordingObserver{}, &recordingObserver{}
	reg.DeathObservers = append(reg.DeathObservers, a, b)
	reg.NotifyTreeDeath(&tree.Tree{ID: 1}, tree.RemovalDeath)
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("got calls a=%d b=%d, want 1 each", a.calls, b.calls)
	}
}
