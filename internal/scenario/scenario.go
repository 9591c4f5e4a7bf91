// Package scenario loads process sets from YAML and CSV documents.
package scenario

import (
	"fmt"
	"strings"

	"github.com/me/schedsim/pkg/model"
)

// Format identifies a scenario document format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts yaml, yml and csv, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported scenario format %q (want yaml or csv)", s)
}

// Scenario is a process set with an optional scheduling configuration.
// Zero Algorithm and Quantum mean "keep the current setting".
type Scenario struct {
	Algorithm model.Algorithm     `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Quantum   int                 `json:"quantum,omitempty" yaml:"quantum,omitempty"`
	Processes []model.ProcessSpec `json:"processes" yaml:"processes"`
}

// Validate checks every process and the optional quantum.
func (s *Scenario) Validate() error {
	var errs []model.FieldError
	if s.Quantum < 0 {
		errs = append(errs, model.FieldError{Field: "quantum", Message: "must be > 0"})
	}
	if s.Algorithm != "" && !s.Algorithm.Valid() {
		errs = append(errs, model.FieldError{Field: "algorithm", Message: fmt.Sprintf("unknown algorithm %q", s.Algorithm)})
	}
	errs = append(errs, model.ValidateSpecs(s.Processes)...)
	if len(errs) > 0 {
		return model.NewValidationError("invalid scenario", errs...)
	}
	return nil
}

// Sample returns the built-in demonstration workload.
func Sample() *Scenario {
	return &Scenario{
		Processes: []model.ProcessSpec{
			{Arrival: 0, Burst: 5},
			{Arrival: 1, Burst: 3},
			{Arrival: 2, Burst: 8},
			{Arrival: 3, Burst: 2},
			{Arrival: 5, Burst: 4},
			{Arrival: 6, Burst: 6},
		},
	}
}

// Definitions assigns P1..Pn ids in document order.
func (s *Scenario) Definitions() []model.ProcessDef {
	defs := make([]model.ProcessDef, len(s.Processes))
	for i, p := range s.Processes {
		defs[i] = model.ProcessDef{
			ID:      fmt.Sprintf("P%d", i+1),
			Order:   i + 1,
			Arrival: p.Arrival,
			Burst:   p.Burst,
		}
	}
	return defs
}
