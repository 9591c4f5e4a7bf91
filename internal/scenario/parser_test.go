package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/me/schedsim/internal/logging"
	"github.com/me/schedsim/pkg/model"
)

func testParser() *Parser {
	return NewParser(logging.Discard())
}

func TestParseYAML(t *testing.T) {
	doc := `
algorithm: round robin
quantum: 3
processes:
  - arrival: 0
    burst: 5
  - {arrival: 1, burst: 3}
`
	sc, err := testParser().ParseYAML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if sc.Algorithm != model.AlgorithmRoundRobin || sc.Quantum != 3 {
		t.Errorf("config = %s/%d, want RR/3", sc.Algorithm, sc.Quantum)
	}
	want := []model.ProcessSpec{{Arrival: 0, Burst: 5}, {Arrival: 1, Burst: 3}}
	if !reflect.DeepEqual(sc.Processes, want) {
		t.Errorf("Processes = %+v, want %+v", sc.Processes, want)
	}
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code model.ErrorCode
	}{
		{"bad yaml", "processes: [", ""},
		{"unknown algorithm", "algorithm: lottery\nprocesses: []", model.ErrValidation},
		{"zero burst", "processes:\n  - {arrival: 0, burst: 0}", model.ErrValidation},
		{"negative quantum", "quantum: -1\nprocesses: []", model.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testParser().ParseYAML([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *model.APIError
			if tt.code != "" && (!errors.As(err, &apiErr) || apiErr.Code != tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []model.ProcessSpec
	}{
		{"no header", "0,5\n1,3\n", []model.ProcessSpec{{Arrival: 0, Burst: 5}, {Arrival: 1, Burst: 3}}},
		{"header", "arrival,burst\n0,5\n2, 1\n", []model.ProcessSpec{{Arrival: 0, Burst: 5}, {Arrival: 2, Burst: 1}}},
		{"comments and extra columns", "# workload\n0,5,ignored\n\n4,2\n", []model.ProcessSpec{{Arrival: 0, Burst: 5}, {Arrival: 4, Burst: 2}}},
		{"empty", "", []model.ProcessSpec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := testParser().ParseCSV(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("ParseCSV: %v", err)
			}
			if !reflect.DeepEqual(sc.Processes, tt.want) {
				t.Errorf("Processes = %+v, want %+v", sc.Processes, tt.want)
			}
		})
	}
}

func TestParseCSV_Errors(t *testing.T) {
	docs := map[string]string{
		"single field":       "0\n",
		"bad arrival":        "0,1\nx,2\n",
		"bad burst":          "0,y\n",
		"non-positive burst": "0,0\n",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			if _, err := testParser().ParseCSV(strings.NewReader(doc)); err == nil {
				t.Errorf("ParseCSV(%q) succeeded", doc)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "work.csv")
	if err := os.WriteFile(csvPath, []byte("0,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := testParser().LoadFile(csvPath)
	if err != nil {
		t.Fatalf("LoadFile(csv): %v", err)
	}
	if len(sc.Processes) != 1 {
		t.Errorf("Processes = %+v", sc.Processes)
	}

	yamlPath := filepath.Join(dir, "sample.yml")
	data, err := MarshalYAML(Sample())
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	if err := os.WriteFile(yamlPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err = testParser().LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadFile(yaml): %v", err)
	}
	if !reflect.DeepEqual(sc.Processes, Sample().Processes) {
		t.Errorf("round trip = %+v", sc.Processes)
	}

	if _, err := testParser().LoadFile(filepath.Join(dir, "work.json")); err == nil {
		t.Error("LoadFile accepted .json")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"yaml", FormatYAML},
		{".YML", FormatYAML},
		{"csv", FormatCSV},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded")
	}
}

func TestSampleDefinitions(t *testing.T) {
	sc := Sample()
	if err := sc.Validate(); err != nil {
		t.Fatalf("sample invalid: %v", err)
	}
	defs := sc.Definitions()
	if len(defs) != 6 || defs[0].ID != "P1" || defs[5].ID != "P6" || defs[2].Burst != 8 {
		t.Errorf("Definitions = %+v", defs)
	}
}
