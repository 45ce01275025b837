package snapshot

import (
	"bytes"
	"testing"

	"github.com/landscape-sim/forestsim/ru"
	"github.com/landscape-sim/forestsim/species"
	"github.com/landscape-sim/forestsim/tree"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	sp := &species.Species{ID: "piab"}
	r := ru.New(5, 10, 20)
	r.AddTree(&tree.Tree{ID: 1, Species: sp, DBH: 15})
	r.AddTree(&tree.Tree{ID: 2, Species: sp, DBH: 30})

	var buf bytes.Buffer
	if err := Save(&buf, 2050, []*ru.ResourceUnit{r}); err != nil {
		t.Fatal(err)
	}

	target := ru.New(5, 10, 20)
	year, err := Load(&buf, map[int]*ru.ResourceUnit{5: target})
	if err != nil {
		t.Fatal(err)
	}
	if year != 2050 {
		t.Errorf("got year %d, want 2050", year)
	}
	if len(target.AllTrees()) != 2 {
		t.Fatalf("got %d trees after load, want 2", len(target.AllTrees()))
	}
}

func TestLoadRejectsTruncatedData(t *testing.T) {
	var buf bytes.Buffer
	if err := Save(&buf, 1, nil); err != nil {
		t.Fatal(err)
	}
	// Verify Load surfaces a decode error on truncated input.
	truncated := bytes.NewReader(buf.Bytes()[:2])
	if _, err := Load(truncated, nil); err == nil {
		t.Error("expected an error loading truncated snapshot data")
	}
}
