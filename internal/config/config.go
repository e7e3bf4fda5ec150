// Package config defines the polisher's enumerated configuration and its
// validation, the way the teacher's internal/cli/options.go validates
// flags inline before handing them to the orchestrator.
package config

import "fmt"

// Mode selects the overlap filtering policy (see core/overlap.Mode).
type Mode byte

const (
	ModeContig   Mode = 'C'
	ModeFragment Mode = 'F'
)

// Config holds every tunable named in the spec's External Interfaces
// section.
type Config struct {
	Mode                    Mode
	WindowLength            int
	QualityThreshold        float64
	ErrorThreshold          float64
	Match                   int
	Mismatch                int
	Gap                     int
	NumThreads              int
	DropUnpolishedSequences bool
	MinCoverage             float64
	AllowedGapPercent       int
}

// Default returns the racon-shaped defaults: a mean-PHRED layer floor of
// 10, fairly permissive error threshold.
func Default() Config {
	return Config{
		Mode:              ModeContig,
		WindowLength:      500,
		QualityThreshold:  10,
		ErrorThreshold:    0.3,
		Match:             5,
		Mismatch:          -4,
		Gap:               -8,
		NumThreads:        1,
		MinCoverage:       0,
		AllowedGapPercent: 100,
	}
}

// Validate reports a configuration error, never a panic, for any field
// that cannot be acted on.
func (c Config) Validate() error {
	if c.Mode != ModeContig && c.Mode != ModeFragment {
		return fmt.Errorf("config: invalid mode %q (want C or F)", c.Mode)
	}
	if c.WindowLength <= 0 {
		return fmt.Errorf("config: window length must be positive, got %d", c.WindowLength)
	}
	if c.ErrorThreshold < 0 || c.ErrorThreshold > 1 {
		return fmt.Errorf("config: error threshold must be in [0,1], got %v", c.ErrorThreshold)
	}
	if c.NumThreads <= 0 {
		return fmt.Errorf("config: num threads must be positive, got %d", c.NumThreads)
	}
	if c.AllowedGapPercent < 0 || c.AllowedGapPercent > 100 {
		return fmt.Errorf("config: allowed gap percent must be in [0,100], got %d", c.AllowedGapPercent)
	}
	return nil
}
