package cliutil

import (
	"testing"

	"github.com/landscape-sim/forestsim/config"
)

func TestBuildRootCommandTree(t *testing.T) {
	root, err := BuildRoot(config.New())
	if err != nil {
		t.Fatal(err)
	}
	if root.Use != "forestsim" {
		t.Errorf("got root Use %q, want forestsim", root.Use)
	}

	want := map[string]bool{"run": false, "grid": false, "snapshot": false, "version": false}
	for _, c := range root.Commands() {
		name := c.Name()
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected root to have a %q subcommand", name)
		}
	}
}

func TestBuildRootSnapshotHasSaveAndLoad(t *testing.T) {
	root, err := BuildRoot(config.New())
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range root.Commands() {
		if c.Name() == "snapshot" {
			found := map[string]bool{"save": false, "load": false}
			for _, sub := range c.Commands() {
				if _, ok := found[sub.Name()]; ok {
					found[sub.Name()] = true
				}
			}
			for name, ok := range found {
				if !ok {
					t.Errorf("expected snapshot to have a %q subcommand", name)
				}
			}
			return
		}
	}
	t.Error("expected a snapshot subcommand under root")
}

func TestBuildRootBindsPersistentFlags(t *testing.T) {
	root, err := BuildRoot(config.New())
	if err != nil {
		t.Fatal(err)
	}
	if root.PersistentFlags().Lookup("model.world.torus") == nil {
		t.Error("expected model.world.torus to be bound as a persistent flag")
	}
}
