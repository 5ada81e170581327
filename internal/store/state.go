package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CurrentSchemaVersion is the current version of the state file schema.
const CurrentSchemaVersion = 1

// StateFile is the on-disk form of the key/value state.
// This is persisted to ~/.local/share/docshell/state.json
type StateFile struct {
	SchemaVersion int               `json:"schema_version"`
	UpdatedAt     int64             `json:"updated_at,omitempty"` // Unix timestamp of the last write
	Values        map[string]string `json:"values"`
}

// LoadStateFile reads the state file at path.
// A missing file yields an empty state.
func LoadStateFile(path string) (*StateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &StateFile{SchemaVersion: CurrentSchemaVersion, Values: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state StateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	// Ensure schema version is set
	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}
	if state.Values == nil {
		state.Values = map[string]string{}
	}

	return &state, nil
}

// SaveStateFile writes state to path atomically.
func SaveStateFile(path string, state *StateFile) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}
	state.UpdatedAt = time.Now().Unix()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return os.Rename(tmpPath, path)
}
