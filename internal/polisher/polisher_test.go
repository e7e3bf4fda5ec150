package polisher

import (
	"context"
	"strings"
	"testing"

	"racon/internal/config"
	"racon/internal/intake"
)

func testConfig(windowLength int) config.Config {
	cfg := config.Default()
	cfg.WindowLength = windowLength
	cfg.NumThreads = 1
	return cfg
}

func producers(targets, queries []intake.SequenceRecord, overlaps []intake.OverlapRecord) (intake.SequenceProducer, intake.SequenceProducer, intake.OverlapProducer) {
	return intake.NewSliceProducer(targets, 0), intake.NewSliceProducer(queries, 0), intake.NewSliceProducer(overlaps, 0)
}

func TestPolishIdentityWhenReadsAgreeWithTarget(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGTACGT")
	targets := []intake.SequenceRecord{{Name: "tgt1", Data: seq}}
	queries := []intake.SequenceRecord{{Name: "read1", Data: seq}}
	overlaps := []intake.OverlapRecord{{
		QueryName: "read1", QueryStart: 0, QueryEnd: len(seq),
		TargetName: "tgt1", TargetStart: 0, TargetEnd: len(seq), Length: len(seq),
	}}

	p := New(testConfig(len(seq)))
	tp, qp, op := producers(targets, queries, overlaps)
	if err := p.Initialize(context.Background(), tp, qp, op); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out, err := p.Polish(false)
	if err != nil {
		t.Fatalf("Polish: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("want 1 polished target, got %d", len(out))
	}
	if string(out[0].Data) != string(seq) {
		t.Errorf("want identity polish, got %q", string(out[0].Data))
	}
	if out[0].TargetCoverage != 1 {
		t.Errorf("want target coverage 1, got %d", out[0].TargetCoverage)
	}
	if out[0].PolishedFraction != 1.0 {
		t.Errorf("want polished fraction 1.0, got %v", out[0].PolishedFraction)
	}
}

func TestPolishCorrectsSingleTargetError(t *testing.T) {
	correct := []byte("ACGTACGTACGTACGTACGT")
	broken := append([]byte{}, correct...)
	broken[10] = 'T' // correct[10] == 'A'

	targets := []intake.SequenceRecord{{Name: "tgt1", Data: broken}}
	var queries []intake.SequenceRecord
	var overlaps []intake.OverlapRecord
	for i := 0; i < 5; i++ {
		name := "read" + string(rune('1'+i))
		queries = append(queries, intake.SequenceRecord{Name: name, Data: append([]byte{}, correct...)})
		overlaps = append(overlaps, intake.OverlapRecord{
			QueryName: name, QueryStart: 0, QueryEnd: len(correct),
			TargetName: "tgt1", TargetStart: 0, TargetEnd: len(correct), Length: len(correct),
		})
	}

	p := New(testConfig(len(correct)))
	tp, qp, op := producers(targets, queries, overlaps)
	if err := p.Initialize(context.Background(), tp, qp, op); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out, err := p.Polish(false)
	if err != nil {
		t.Fatalf("Polish: %v", err)
	}
	if string(out[0].Data) != string(correct) {
		t.Fatalf("want the majority of reads to correct the lone target error, got %q", string(out[0].Data))
	}
}

func TestInitializeFoldsDuplicateQueryIntoTarget(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGTACGT")
	targets := []intake.SequenceRecord{{Name: "dup", Data: seq}}
	queries := []intake.SequenceRecord{{Name: "dup", Data: seq}, {Name: "other", Data: seq}}
	overlaps := []intake.OverlapRecord{{
		QueryName: "other", QueryStart: 0, QueryEnd: len(seq),
		TargetName: "dup", TargetStart: 0, TargetEnd: len(seq), Length: len(seq),
	}}

	p := New(testConfig(len(seq)))
	tp, qp, op := producers(targets, queries, overlaps)
	if err := p.Initialize(context.Background(), tp, qp, op); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if len(p.sequences) != 2 {
		t.Fatalf("want the duplicate-named query folded into the target (2 sequences total), got %d", len(p.sequences))
	}
	if p.nameToID["dupq"] != p.nameToID["dupt"] {
		t.Errorf("want the duplicate query id aliased to its target's id")
	}
}

func TestInitializeRejectsDuplicateNameWithUnequalData(t *testing.T) {
	targets := []intake.SequenceRecord{{Name: "dup", Data: []byte("ACGT")}}
	queries := []intake.SequenceRecord{{Name: "dup", Data: []byte("ACGTAA")}}
	overlaps := []intake.OverlapRecord{{QueryName: "dup", TargetName: "dup"}}

	p := New(testConfig(4))
	tp, qp, op := producers(targets, queries, overlaps)
	err := p.Initialize(context.Background(), tp, qp, op)
	if err == nil || !strings.Contains(err.Error(), "duplicate sequence") {
		t.Fatalf("want a duplicate-sequence error, got %v", err)
	}
}

func TestInitializeFatalOnNoTargets(t *testing.T) {
	p := New(testConfig(10))
	tp, qp, op := producers(nil, nil, nil)
	err := p.Initialize(context.Background(), tp, qp, op)
	if err == nil || !strings.Contains(err.Error(), "no targets loaded") {
		t.Fatalf("want a no-targets error, got %v", err)
	}
}

func TestInitializeFatalOnNoQueries(t *testing.T) {
	targets := []intake.SequenceRecord{{Name: "tgt1", Data: []byte("ACGT")}}
	p := New(testConfig(10))
	tp, qp, op := producers(targets, nil, nil)
	err := p.Initialize(context.Background(), tp, qp, op)
	if err == nil || !strings.Contains(err.Error(), "no query sequences loaded") {
		t.Fatalf("want a no-queries error, got %v", err)
	}
}

func TestInitializeFatalOnNoOverlaps(t *testing.T) {
	targets := []intake.SequenceRecord{{Name: "tgt1", Data: []byte("ACGT")}}
	queries := []intake.SequenceRecord{{Name: "read1", Data: []byte("ACGT")}}
	p := New(testConfig(10))
	tp, qp, op := producers(targets, queries, nil)
	err := p.Initialize(context.Background(), tp, qp, op)
	if err == nil || !strings.Contains(err.Error(), "no overlaps loaded") {
		t.Fatalf("want a no-overlaps error, got %v", err)
	}
}
