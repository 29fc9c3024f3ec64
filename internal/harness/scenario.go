package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one end-to-end report test: a schema, a report
// definition and the fixture scripts that seed the database it runs
// against.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario covers.
	Description string `yaml:"description,omitempty"`

	// SchemaDir is the directory of CUE schema files.
	// Relative to the scenario file location.
	SchemaDir string `yaml:"schema_dir"`

	// Report is the path of the YAML report definition.
	// Relative to the scenario file location.
	Report string `yaml:"report"`

	// Fixtures lists SQL scripts executed in order against a fresh
	// database before the report runs.
	// Relative to the scenario file location.
	Fixtures []string `yaml:"fixtures"`

	// Dialect selects the SQL dialect, default "sqlite". Scenarios
	// execute against SQLite; other dialects are compile-only.
	Dialect string `yaml:"dialect,omitempty"`
}

// LoadScenario reads a scenario file and resolves its relative paths
// against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	s.SchemaDir = resolvePath(dir, s.SchemaDir)
	s.Report = resolvePath(dir, s.Report)
	for i, f := range s.Fixtures {
		s.Fixtures[i] = resolvePath(dir, f)
	}

	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario needs a name")
	}
	if s.SchemaDir == "" {
		return fmt.Errorf("scenario needs a schema_dir")
	}
	if s.Report == "" {
		return fmt.Errorf("scenario needs a report")
	}
	return nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
