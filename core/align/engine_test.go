package align

import (
	"testing"

	"racon-core/poa"
)

func defaultConfig() Config { return Config{Match: 5, Mismatch: -4, Gap: -8} }

func TestAlignIdenticalSequenceIsAllMatches(t *testing.T) {
	g := poa.NewSeeded([]byte("ACGT"), nil)
	e := New(defaultConfig(), 16, 16)
	al, err := e.Align([]byte("ACGT"), g)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(al) != 4 {
		t.Fatalf("want 4 alignment pairs, got %d", len(al))
	}
	for i, p := range al {
		if p.NodeID != int32(i) || p.SeqPos != int32(i) {
			t.Errorf("pair %d: want (%d,%d), got (%d,%d)", i, i, i, p.NodeID, p.SeqPos)
		}
	}
}

func TestAlignSingleMismatch(t *testing.T) {
	g := poa.NewSeeded([]byte("ACGT"), nil)
	e := New(defaultConfig(), 16, 16)
	al, err := e.Align([]byte("AGGT"), g)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(al) != 4 {
		t.Fatalf("want 4 pairs for a same-length mismatch, got %d: %v", len(al), al)
	}
	// Every position should still be a match/mismatch pair (node and seq
	// both advance); only the letter at position 1 actually differs.
	for i, p := range al {
		if p.NodeID == -1 || p.SeqPos == -1 {
			t.Fatalf("pair %d: want no indel for an equal-length substitution, got %+v", i, p)
		}
	}
}

func TestAlignInsertionIntoGraph(t *testing.T) {
	g := poa.NewSeeded([]byte("ACT"), nil)
	e := New(defaultConfig(), 16, 16)
	al, err := e.Align([]byte("ACGT"), g)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	insertions := 0
	for _, p := range al {
		if p.NodeID == -1 {
			insertions++
		}
	}
	if insertions != 1 {
		t.Fatalf("want exactly one insertion for the extra G, got %d in %v", insertions, al)
	}
}

func TestAlignDeletionFromGraph(t *testing.T) {
	g := poa.NewSeeded([]byte("ACGT"), nil)
	e := New(defaultConfig(), 16, 16)
	al, err := e.Align([]byte("ACT"), g)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	deletions := 0
	for _, p := range al {
		if p.SeqPos == -1 {
			deletions++
		}
	}
	if deletions != 1 {
		t.Fatalf("want exactly one deletion for the skipped G, got %d in %v", deletions, al)
	}
}

func TestAlignRoundTripThroughGraph(t *testing.T) {
	g := poa.NewSeeded([]byte("ACGT"), nil)
	e := New(defaultConfig(), 16, 16)
	al, err := e.Align([]byte("ACGG"), g)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if err := g.AddAlignment(al, []byte("ACGG"), nil); err != nil {
		t.Fatalf("AddAlignment: %v", err)
	}
	if g.NumNodes() != 5 {
		t.Fatalf("a single trailing mismatch should add exactly one node, got %d", g.NumNodes())
	}
}

func TestAlignEmptyGraphInsertsEverything(t *testing.T) {
	g := poa.NewSeeded(nil, nil)
	e := New(defaultConfig(), 16, 16)
	al, err := e.Align([]byte("AC"), g)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	for _, p := range al {
		if p.NodeID != -1 {
			t.Fatalf("an empty graph can only be matched by insertions, got %+v", p)
		}
	}
}
