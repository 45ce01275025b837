package ru

import (
	"testing"

	"github.com/landscape-sim/forestsim/species"
	"github.com/landscape-sim/forestsim/tree"
)

func TestAddTreeAndLiveTrees(t *testing.T) {
	r := New(1, 0, 0)
	sp := &species.Species{ID: "piab"}
	t1 := &tree.Tree{ID: 1, Species: sp}
	t2 := &tree.Tree{ID: 2, Species: sp}
	r.AddTree(t1)
	r.AddTree(t2)
	t2.MarkRemoved(tree.RemovalDeath)
	if len(r.LiveTrees()) != 1 {
		t.Errorf("got %d live trees, want 1", len(r.LiveTrees()))
	}
	if len(r.AllTrees()) != 2 {
		t.Errorf("dead tree should still be present before compaction, got %d", len(r.AllTrees()))
	}
}

func TestCompactTreesRemovesDead(t *testing.T) {
	r := New(1, 0, 0)
	sp := &species.Species{ID: "piab"}
	live := &tree.Tree{ID: 1, Species: sp}
	dead := &tree.Tree{ID: 2, Species: sp, DBH: 10, StemMass: 100}
	r.AddTree(live)
	r.AddTree(dead)
	dead.MarkRemoved(tree.RemovalDeath)
	r.CompactTrees(true)
	if len(r.AllTrees()) != 1 {
		t.Errorf("got %d trees after compaction, want 1", len(r.AllTrees()))
	}
	if len(r.Snag.DeadTrees) == 0 && r.Snag.Cohorts[0].C == 0 && r.Snag.Cohorts[1].C == 0 && r.Snag.Cohorts[2].C == 0 {
		t.Error("dead tree should have been routed into the snag system")
	}
}

func TestDisturbanceHistoryRingWraps(t *testing.T) {
	r := New(1, 0, 0)
	for i := 0; i < disturbanceHistorySize+10; i++ {
		r.NotifyDisturbance(2000+i, DisturbanceWind, "test")
	}
	hist := r.DisturbanceHistory()
	if len(hist) != disturbanceHistorySize {
		t.Fatalf("got %d entries, want %d", len(hist), disturbanceHistorySize)
	}
	if hist[0].Year != 2010 {
		t.Errorf("oldest retained entry year = %d, want 2010", hist[0].Year)
	}
}
