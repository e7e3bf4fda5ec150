// Package progress drives a CLI progress bar over streamed intake
// batches, grounded on davidebolo1993-kfilt's use of cheggaaa/pb for
// per-read progress during streaming bioinformatics intake. This is a
// cmd/ concern only: racon-core and internal/polisher never import it.
package progress

import "github.com/cheggaaa/pb/v3"

// Bar wraps a cheggaaa/pb bar sized to an expected record count; a
// negative or zero total switches to an indeterminate bar.
type Bar struct {
	bar *pb.ProgressBar
}

// New starts a visible bar, or a no-op Bar when quiet is true.
func New(total int, quiet bool) *Bar {
	if quiet {
		return &Bar{}
	}
	b := pb.New(total)
	b.SetTemplateString(`{{counters . }} {{bar . }} {{percent . }}`)
	b.Start()
	return &Bar{bar: b}
}

// Add advances the bar by n records.
func (b *Bar) Add(n int) {
	if b.bar != nil {
		b.bar.Add(n)
	}
}

// Finish completes the bar.
func (b *Bar) Finish() {
	if b.bar != nil {
		b.bar.Finish()
	}
}
