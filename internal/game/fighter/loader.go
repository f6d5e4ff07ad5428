package fighter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRoster reads every .yaml/.yml file in dir (one fighter definition per
// file), validates each through New, and returns the fighters sorted by the
// directory listing order.
//
// Precondition: dir must be a readable directory.
// Postcondition: every returned Fighter passed validation; the first invalid
// or unreadable file aborts the load with an error naming the file.
func LoadRoster(dir string) ([]Fighter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading roster directory %s: %w", dir, err)
	}

	var fighters []Fighter
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		path := filepath.Join(dir, name)

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading roster file %s: %w", path, err)
		}

		var def Def
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parsing roster file %s: %w", path, err)
		}

		f, err := New(def)
		if err != nil {
			return nil, fmt.Errorf("roster file %s: %w", path, err)
		}
		fighters = append(fighters, f)
	}

	return fighters, nil
}
