// Package results persists one record per benchmark trial.
package results

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// DefaultVersion is assumed for stored records that carry no version.
const DefaultVersion = 1

// Record is the outcome of one (model, context length, depth, version) trial.
type Record struct {
	Model         string `json:"model" yaml:"model"`
	ContextLength int    `json:"context_length" yaml:"context_length"`
	DepthPercent  int    `json:"depth_percent" yaml:"depth_percent"`
	Version       int    `json:"version" yaml:"version"`
	Needle        string `json:"needle" yaml:"needle"`
	ModelResponse string `json:"model_response" yaml:"model_response"`
	Score         int    `json:"score" yaml:"score"`
}

// Key identifies a trial. At most one record exists per key.
type Key struct {
	Model         string
	ContextLength int
	DepthPercent  int
	Version       int
}

// Key returns the record's identity.
func (r Record) Key() Key {
	return Key{
		Model:         r.Model,
		ContextLength: r.ContextLength,
		DepthPercent:  r.DepthPercent,
		Version:       r.Version,
	}
}

// UnmarshalJSON applies DefaultVersion when the version field is absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		plain
		Version *int `json:"version"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return eris.Wrap(err, "results: decode record")
	}
	*r = Record(aux.plain)
	r.Version = DefaultVersion
	if aux.Version != nil {
		r.Version = *aux.Version
	}
	return nil
}

// Find reports whether records contains a record with key k.
func Find(records []Record, k Key) bool {
	for _, r := range records {
		if r.Key() == k {
			return true
		}
	}
	return false
}
