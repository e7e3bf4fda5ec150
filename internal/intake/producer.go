// Package intake defines the streaming producer contract the polisher
// pulls sequence and overlap records from. Concrete file-format support
// (FASTA/FASTQ/PAF/MHAP/SAM, optionally gzip) is deliberately out of
// scope: producers are pluggable, and this package defines only the
// boundary the polisher consumes generically, the way the teacher's
// core/fasta.StreamChunks is format-specific but sits behind a channel
// contract the rest of the pipeline never needs to know about.
package intake

import "context"

// SequenceRecord is one streamed input sequence, before internal ids are
// assigned.
type SequenceRecord struct {
	Name    string
	Data    []byte
	Quality []byte
}

// OverlapRecord is one streamed pairwise overlap, in the external-name,
// 0-based half-open coordinate form described in the spec's External
// Interfaces section.
type OverlapRecord struct {
	QueryName    string
	QueryLength  int
	QueryStart   int
	QueryEnd     int
	Strand       bool
	TargetName   string
	TargetLength int
	TargetStart  int
	TargetEnd    int
	Error        float64
	Length       int
}

// SequenceProducer yields batches of sequence records, each batch capped
// at roughly 1 GiB by the producer's own accounting, and signals
// end-of-stream by returning ok=false.
type SequenceProducer interface {
	NextBatch(ctx context.Context) (batch []SequenceRecord, ok bool, err error)
}

// OverlapProducer yields batches of overlap records the same way.
type OverlapProducer interface {
	NextBatch(ctx context.Context) (batch []OverlapRecord, ok bool, err error)
}

// SliceProducer adapts an in-memory slice, chunked by batchSize, to the
// SequenceProducer/OverlapProducer contract. Used by tests and by small
// one-shot callers that already have everything in memory.
type SliceProducer[T any] struct {
	items     []T
	batchSize int
	pos       int
}

// NewSliceProducer returns a producer over items, handed out batchSize at
// a time (or all at once if batchSize <= 0).
func NewSliceProducer[T any](items []T, batchSize int) *SliceProducer[T] {
	return &SliceProducer[T]{items: items, batchSize: batchSize}
}

// NextBatch implements the shared streaming contract generically;
// *SliceProducer[SequenceRecord] and *SliceProducer[OverlapRecord] satisfy
// SequenceProducer and OverlapProducer through it directly.
func (p *SliceProducer[T]) NextBatch(ctx context.Context) ([]T, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if p.pos >= len(p.items) {
		return nil, false, nil
	}
	end := len(p.items)
	if p.batchSize > 0 && p.pos+p.batchSize < end {
		end = p.pos + p.batchSize
	}
	batch := p.items[p.pos:end]
	p.pos = end
	return batch, true, nil
}
