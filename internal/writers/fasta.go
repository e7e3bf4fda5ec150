// Package writers formats polished targets as tagged FASTA records, the
// way the teacher's internal/output/fasta.go streams engine.Product
// records to a writer.
package writers

import (
	"bufio"
	"fmt"
	"io"

	"racon/internal/config"
	"racon/internal/polisher"
)

// WriteFASTA writes one FASTA record per polished target, tagging each
// header with LN/RC/XC (and, in fragment mode, a leading "r" tag) per the
// spec's Consensus output format.
func WriteFASTA(w io.Writer, mode config.Mode, targets []polisher.PolishedTarget) error {
	bw := bufio.NewWriter(w)
	for _, t := range targets {
		if _, err := fmt.Fprintf(bw, ">%s%s\n", t.Name, headerTags(mode, t)); err != nil {
			return err
		}
		if err := writeWrapped(bw, t.Data, 80); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func headerTags(mode config.Mode, t polisher.PolishedTarget) string {
	tags := ""
	if mode == config.ModeFragment {
		tags += " r"
	}
	tags += fmt.Sprintf(" LN:i:%d RC:i:%d XC:f:%.6f", len(t.Data), t.TargetCoverage, t.PolishedFraction)
	return tags
}

func writeWrapped(w *bufio.Writer, data []byte, width int) error {
	for i := 0; i < len(data); i += width {
		end := i + width
		if end > len(data) {
			end = len(data)
		}
		if _, err := w.Write(data[i:end]); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if len(data) == 0 {
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}
