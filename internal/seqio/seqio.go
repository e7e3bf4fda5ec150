// Package seqio is a minimal, line-oriented loader that turns on-disk
// tables into the batches internal/intake.SliceProducer hands the
// polisher, the way core/primer.LoadTSV turns a flat TSV file into
// primer.Pair values. It intentionally does not speak FASTA, FASTQ,
// PAF, MHAP, or SAM: those remain out of scope, left to whatever
// pluggable producer a real deployment wires in.
package seqio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"racon/internal/intake"
)

// ReadSequences loads one sequence per non-blank, non-comment line of
// path, fields "name\tdata" or "name\tdata\tquality". A quality field of
// "-" means no quality track.
func ReadSequences(path string) ([]intake.SequenceRecord, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var records []intake.SequenceRecord
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) < 2 {
			return nil, fmt.Errorf("%s:%d: want at least name and data fields", path, ln)
		}
		rec := intake.SequenceRecord{Name: f[0], Data: []byte(strings.ToUpper(f[1]))}
		if len(f) >= 3 && f[2] != "-" {
			rec.Quality = []byte(f[2])
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadOverlaps loads one pairwise overlap per non-blank, non-comment
// line of path: query_name query_len query_start query_end strand
// target_name target_len target_start target_end error length, where
// strand is "+" or "-".
func ReadOverlaps(path string) ([]intake.OverlapRecord, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var records []intake.OverlapRecord
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 11 {
			return nil, fmt.Errorf("%s:%d: want 11 fields, got %d", path, ln, len(f))
		}
		rec := intake.OverlapRecord{QueryName: f[0], TargetName: f[5]}
		var perr error
		rec.QueryLength, perr = atoi(f[1], perr)
		rec.QueryStart, perr = atoi(f[2], perr)
		rec.QueryEnd, perr = atoi(f[3], perr)
		rec.Strand = f[4] == "-"
		rec.TargetLength, perr = atoi(f[6], perr)
		rec.TargetStart, perr = atoi(f[7], perr)
		rec.TargetEnd, perr = atoi(f[8], perr)
		rec.Error, perr = atof(f[9], perr)
		rec.Length, perr = atoi(f[10], perr)
		if perr != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, ln, perr)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func atoi(s string, prior error) (int, error) {
	if prior != nil {
		return 0, prior
	}
	v, err := strconv.Atoi(s)
	return v, err
}

func atof(s string, prior error) (float64, error) {
	if prior != nil {
		return 0, prior
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err
}
