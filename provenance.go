package tskit

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// ProvenanceSchemaVersion is written into every ProvenanceRecord.
const ProvenanceSchemaVersion = "1.0.0"

// ProvenanceRecord is the JSON document stored in a provenance row.
type ProvenanceRecord struct {
	SchemaVersion string                `json:"schema_version"`
	Software      ProvenanceSoftware    `json:"software"`
	Parameters    map[string]any        `json:"parameters"`
	Environment   ProvenanceEnvironment `json:"environment"`
}

// ProvenanceSoftware names the program that changed the tables.
type ProvenanceSoftware struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ProvenanceEnvironment describes where the program ran.
type ProvenanceEnvironment struct {
	OS        ProvenanceOS      `json:"os"`
	Runtime   ProvenanceRuntime `json:"runtime"`
	Libraries map[string]string `json:"libraries,omitempty"`
}

type ProvenanceOS struct {
	System  string `json:"system"`
	Machine string `json:"machine"`
}

type ProvenanceRuntime struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NewProvenanceRecord fills in the environment of the running process.
// Libraries lists the module dependencies recorded in the binary.
func NewProvenanceRecord(software, version string, parameters map[string]any) ProvenanceRecord {
	env := ProvenanceEnvironment{
		OS:      ProvenanceOS{System: runtime.GOOS, Machine: runtime.GOARCH},
		Runtime: ProvenanceRuntime{Name: "go", Version: runtime.Version()},
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		env.Libraries = make(map[string]string, len(info.Deps))
		for _, dep := range info.Deps {
			env.Libraries[dep.Path] = dep.Version
		}
	}
	if parameters == nil {
		parameters = map[string]any{}
	}
	return ProvenanceRecord{
		SchemaVersion: ProvenanceSchemaVersion,
		Software:      ProvenanceSoftware{Name: software, Version: version},
		Parameters:    parameters,
		Environment:   env,
	}
}

func provenanceTimestamp() string {
	return time.Now().Format(time.RFC3339)
}

// AddProvenanceRecord encodes rec with the configured codec and appends it
// with the current time.
func (tc *TableCollection) AddProvenanceRecord(rec ProvenanceRecord) (ProvenanceID, error) {
	data, err := tc.opts.codec.Marshal(rec)
	if err != nil {
		return Null, fmt.Errorf("tskit: encode provenance: %w", err)
	}
	return tc.AddProvenance(string(data))
}
