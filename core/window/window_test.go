package window

import (
	"testing"

	"racon-core/align"
)

func newEngine() *align.Engine {
	return align.New(align.Config{Match: 5, Mismatch: -4, Gap: -8}, 64, 64)
}

func TestGenerateConsensusIdentityWhenLayersAgree(t *testing.T) {
	w := New(0, []byte("ACGTACGTAC"), nil, KindLong)
	w.AddLayer([]byte("ACGTACGTAC"), nil, 0, 9)
	w.AddLayer([]byte("ACGTACGTAC"), nil, 0, 9)

	polished, err := w.GenerateConsensus(newEngine(), 0, 100)
	if err != nil {
		t.Fatalf("GenerateConsensus: %v", err)
	}
	if !polished {
		t.Fatalf("want polished=true when layers agree with the backbone")
	}
	if string(w.Consensus) != "ACGTACGTAC" {
		t.Fatalf("want identity consensus, got %q", string(w.Consensus))
	}
}

func TestGenerateConsensusCorrectsSingleBackboneError(t *testing.T) {
	w := New(0, []byte("ACGTTCGTAC"), nil, KindLong) // backbone has a T where reads agree on A
	for i := 0; i < 5; i++ {
		w.AddLayer([]byte("ACGTACGTAC"), nil, 0, 9)
	}
	polished, err := w.GenerateConsensus(newEngine(), 0, 100)
	if err != nil {
		t.Fatalf("GenerateConsensus: %v", err)
	}
	if !polished {
		t.Fatalf("want polished=true")
	}
	if string(w.Consensus) != "ACGTACGTAC" {
		t.Fatalf("want majority-read consensus to override the lone backbone error, got %q", string(w.Consensus))
	}
}

func TestGenerateConsensusUnpolishedAboveGapThreshold(t *testing.T) {
	w := New(0, []byte("ACGT"), nil, KindLong)
	// A layer that shares almost nothing with the backbone forces heavy
	// indel content in its alignment.
	w.AddLayer([]byte("TTTTTTTT"), nil, 0, 3)

	polished, err := w.GenerateConsensus(newEngine(), 0, 0)
	if err != nil {
		t.Fatalf("GenerateConsensus: %v", err)
	}
	if polished {
		t.Fatalf("want polished=false when gap fraction exceeds an allowance of 0%%")
	}
	if w.Polished {
		t.Fatalf("want Window.Polished to mirror the returned bool")
	}
}

func TestGenerateConsensusNoLayersKeepsBackbone(t *testing.T) {
	w := New(0, []byte("ACGTACGT"), nil, KindLong)
	polished, err := w.GenerateConsensus(newEngine(), 0, 100)
	if err != nil {
		t.Fatalf("GenerateConsensus: %v", err)
	}
	if !polished {
		t.Fatalf("want polished=true trivially when there are no layers to disagree")
	}
	if string(w.Consensus) != "ACGTACGT" {
		t.Fatalf("want backbone as its own consensus with no layers, got %q", string(w.Consensus))
	}
}

func TestGenerateConsensusTrimsLowCoveragePositions(t *testing.T) {
	w := New(0, []byte("ACGTACGTAC"), nil, KindLong)
	w.AddLayer([]byte("ACGTACGTAC"), nil, 0, 9)
	polished, err := w.GenerateConsensus(newEngine(), 10, 100)
	if err != nil {
		t.Fatalf("GenerateConsensus: %v", err)
	}
	_ = polished
	if len(w.Consensus) != 0 {
		t.Fatalf("want every position trimmed under an unreachable min-coverage of 10, got %q", string(w.Consensus))
	}
	if len(w.AlleleRatio) != len(w.Consensus) {
		t.Fatalf("AlleleRatio must track the trimmed consensus length: %d vs %d", len(w.AlleleRatio), len(w.Consensus))
	}
}
