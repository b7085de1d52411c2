// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func LoadManifest(path string) (*ToolManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m ToolManifest
	err = json.Unmarshal(data, &m)
	return &m, err
}

func SaveManifest(m *ToolManifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks that names are present and unique and that every enabled
// tool declares at least one action.
func (m *ToolManifest) Validate() error {
	if len(m.Tools) == 0 {
		return fmt.Errorf("manifest contains no tools")
	}
	names := make(map[string]bool)
	for _, t := range m.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool missing required field: name")
		}
		if names[t.Name] {
			return fmt.Errorf("duplicate tool name: %s", t.Name)
		}
		names[t.Name] = true
		if t.Enabled && len(t.Actions) == 0 {
			return fmt.Errorf("tool %s declares no actions", t.Name)
		}
	}
	return nil
}

// Owner returns the first tool claiming intent, mirroring dispatch order.
func (m *ToolManifest) Owner(intent string) (string, bool) {
	for _, t := range m.Tools {
		if !t.Enabled {
			continue
		}
		for _, i := range t.Intents {
			if i == intent {
				return t.Name, true
			}
		}
	}
	return "", false
}
