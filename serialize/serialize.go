// Package serialize provides JSON (de)serialization for a configured
// topology.Fleet and a completed result.Result, the two artifacts an
// external orchestrator (see package sim) persists between runs.
package serialize

import (
	"encoding/json"
	"fmt"

	"github.com/sintef/feems/result"
	"github.com/sintef/feems/topology"
)

// MarshalFleet encodes a topology.Fleet to indented JSON.
func MarshalFleet(f *topology.Fleet) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize: marshaling fleet: %w", err)
	}
	return data, nil
}

// UnmarshalFleet decodes a topology.Fleet from JSON and validates it.
func UnmarshalFleet(data []byte) (*topology.Fleet, error) {
	var f topology.Fleet
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("serialize: unmarshaling fleet: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// MarshalResult encodes a result.Result to indented JSON.
func MarshalResult(r *result.Result) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize: marshaling result: %w", err)
	}
	return data, nil
}

// UnmarshalResult decodes a result.Result from JSON.
func UnmarshalResult(data []byte) (*result.Result, error) {
	var r result.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("serialize: unmarshaling result: %w", err)
	}
	return &r, nil
}
