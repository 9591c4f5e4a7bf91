package scenario

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/me/schedsim/pkg/model"
)

// Parser converts scenario documents into validated Scenarios.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a Parser with the given logger.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger.With("component", "scenario")}
}

// rawScenario keeps the algorithm as text so that every spelling accepted by
// model.ParseAlgorithm works in documents.
type rawScenario struct {
	Algorithm string              `yaml:"algorithm"`
	Quantum   int                 `yaml:"quantum"`
	Processes []model.ProcessSpec `yaml:"processes"`
}

// Parse decodes data in the given format.
func (p *Parser) Parse(data []byte, format Format) (*Scenario, error) {
	switch format {
	case FormatYAML:
		return p.ParseYAML(data)
	case FormatCSV:
		return p.ParseCSV(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("unsupported scenario format %q", format)
}

// ParseYAML decodes a YAML scenario:
//
//	algorithm: rr
//	quantum: 3
//	processes:
//	  - {arrival: 0, burst: 5}
func (p *Parser) ParseYAML(data []byte) (*Scenario, error) {
	var raw rawScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	sc := &Scenario{Quantum: raw.Quantum, Processes: raw.Processes}
	if raw.Algorithm != "" {
		alg, err := model.ParseAlgorithm(raw.Algorithm)
		if err != nil {
			return nil, model.NewValidationError("invalid scenario",
				model.FieldError{Field: "algorithm", Message: err.Error()})
		}
		sc.Algorithm = alg
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	p.logger.Debug("parsed scenario", "format", FormatYAML, "processes", len(sc.Processes), "algorithm", sc.Algorithm)
	return sc, nil
}

// ParseCSV reads "arrival,burst" records. A leading header row is skipped when
// its first field is not a number. Blank lines and lines starting with '#' are
// ignored.
func (p *Parser) ParseCSV(r io.Reader) (*Scenario, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	sc := &Scenario{Processes: []model.ProcessSpec{}}
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV parse error: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) < 2 {
			return nil, fmt.Errorf("CSV line %d: want arrival,burst, got %d field(s)", line, len(rec))
		}
		arrival, aerr := strconv.Atoi(strings.TrimSpace(rec[0]))
		if aerr != nil && first {
			continue
		}
		if aerr != nil {
			return nil, fmt.Errorf("CSV line %d: arrival %q is not an integer", line, rec[0])
		}
		burst, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: burst %q is not an integer", line, rec[1])
		}
		sc.Processes = append(sc.Processes, model.ProcessSpec{Arrival: arrival, Burst: burst})
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	p.logger.Debug("parsed scenario", "format", FormatCSV, "processes", len(sc.Processes))
	return sc, nil
}

// LoadFile reads a scenario file, picking the format from its extension.
func (p *Parser) LoadFile(path string) (*Scenario, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return p.Parse(data, format)
}

// MarshalYAML renders s as a YAML document ParseYAML accepts.
func MarshalYAML(s *Scenario) ([]byte, error) {
	return yaml.Marshal(s)
}
