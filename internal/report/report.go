package report

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/anentropic/condagg/internal/condition"
	"github.com/anentropic/condagg/internal/condsql"
	"github.com/anentropic/condagg/internal/ir"
)

// Column is one aggregated output column of a report.
type Column struct {
	// Name is the output alias.
	Name string

	// Kind names the aggregate kind ("sum", "count").
	Kind string

	// Column is the source column for value-consuming kinds like sum.
	Column string

	// When is the condition template rows must match to contribute.
	When *condition.Tree
}

// Report is a grouped report definition.
type Report struct {
	Name    string
	Table   string
	GroupBy []string
	Columns []Column
}

type rawColumn struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Column string `yaml:"column"`
	When   any    `yaml:"when"`
}

type rawReport struct {
	Name    string      `yaml:"name"`
	Table   string      `yaml:"table"`
	GroupBy []string    `yaml:"group_by"`
	Columns []rawColumn `yaml:"columns"`
}

// Load reads and parses a report definition file.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading report: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return r, nil
}

// Parse parses a YAML report definition and validates its shape. Field
// paths are not resolved here: that needs a schema and happens at compile
// time.
func Parse(data []byte) (*Report, error) {
	var raw rawReport
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if raw.Name == "" {
		return nil, fmt.Errorf("report needs a name")
	}
	if raw.Table == "" {
		return nil, fmt.Errorf("report %q needs a table", raw.Name)
	}
	if len(raw.Columns) == 0 {
		return nil, fmt.Errorf("report %q needs at least one column", raw.Name)
	}

	r := &Report{
		Name:    raw.Name,
		Table:   raw.Table,
		GroupBy: raw.GroupBy,
	}

	seen := make(map[string]bool, len(raw.Columns))
	for i, rc := range raw.Columns {
		if rc.Name == "" {
			return nil, fmt.Errorf("column %d needs a name", i)
		}
		if seen[rc.Name] {
			return nil, fmt.Errorf("duplicate column name %q", rc.Name)
		}
		seen[rc.Name] = true

		kind, ok := condsql.KindByName(rc.Kind)
		if !ok {
			return nil, fmt.Errorf("column %q: unknown aggregate kind %q", rc.Name, rc.Kind)
		}
		if kind.Literal == "" && rc.Column == "" {
			return nil, fmt.Errorf("column %q: kind %q needs a source column", rc.Name, rc.Kind)
		}
		if rc.When == nil {
			return nil, fmt.Errorf("column %q needs a when condition", rc.Name)
		}

		when, err := parseWhen(rc.When)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", rc.Name, err)
		}

		r.Columns = append(r.Columns, Column{
			Name:   rc.Name,
			Kind:   rc.Kind,
			Column: rc.Column,
			When:   when,
		})
	}

	return r, nil
}

// parseWhen builds a condition tree from the decoded "when" document.
func parseWhen(doc any) (*condition.Tree, error) {
	node, err := parseWhenNode(doc)
	if err != nil {
		return nil, err
	}
	if t, ok := node.(*condition.Tree); ok {
		return t, nil
	}
	// Single raw leaf: wrap so callers always get a tree template.
	return condition.And(node), nil
}

func parseWhenNode(doc any) (condition.Node, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("when condition must be a map, got %T", doc)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("when condition is empty")
	}

	// Operator forms claim the whole map.
	if hasOperatorKey(m) {
		if len(m) != 1 {
			return nil, fmt.Errorf("all/any/not cannot mix with other keys in one map")
		}
		for op, body := range m {
			switch op {
			case "all":
				children, err := parseWhenList(op, body)
				if err != nil {
					return nil, err
				}
				return condition.And(children...), nil
			case "any":
				children, err := parseWhenList(op, body)
				if err != nil {
					return nil, err
				}
				return condition.Or(children...), nil
			case "not":
				child, err := parseWhenNode(body)
				if err != nil {
					return nil, err
				}
				return condition.Not(child), nil
			}
		}
	}

	// Plain field map: AND over entries in sorted field order, so the
	// parameter order never depends on map iteration.
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	children := make([]condition.Node, 0, len(names))
	for _, name := range names {
		value, err := ir.FromGo(m[name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		children = append(children, condition.Field(name, value))
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return condition.And(children...), nil
}

func parseWhenList(op string, body any) ([]condition.Node, error) {
	list, ok := body.([]any)
	if !ok {
		return nil, fmt.Errorf("%s requires a list, got %T", op, body)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s requires at least one entry", op)
	}

	children := make([]condition.Node, 0, len(list))
	for i, entry := range list {
		child, err := parseWhenNode(entry)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", op, i, err)
		}
		children = append(children, child)
	}
	return children, nil
}

func hasOperatorKey(m map[string]any) bool {
	for _, op := range []string{"all", "any", "not"} {
		if _, ok := m[op]; ok {
			return true
		}
	}
	return false
}
