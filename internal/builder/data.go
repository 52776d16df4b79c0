// internal/builder/data.go
package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadGlobalData reads every YAML or JSON file directly inside dir and
// keys its contents by file name without extension, so _data/nav.yaml is
// available to layouts as .Site.Data.nav.
func loadGlobalData(dir string) (map[string]any, error) {
	data := make(map[string]any)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read data directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		switch ext {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read data file %s: %w", path, err)
		}
		var value any
		// JSON is a subset of YAML, so one decoder covers both.
		if err := yaml.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("could not parse data file %s: %w", path, err)
		}
		data[strings.TrimSuffix(entry.Name(), ext)] = value
	}
	return data, nil
}
