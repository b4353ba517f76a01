package fixtures

import (
	"fmt"

	"golang.org/x/tools/txtar"
)

// Archive is a parsed txtar fixture bundle: each entry is one file's
// scenarios, in the archive's own file order (map iteration order is
// not guaranteed in Go, so callers that need determinism should range
// over Flatten's result, not a map).
type Archive struct {
	ByFile map[string][]Scenario
	Order  []string
}

// ParseArchive reads a txtar archive whose comment is ignored and
// whose every file is its own scenario YAML document, keyed by file
// name.
func ParseArchive(data []byte) (Archive, error) {
	arc := txtar.Parse(data)
	out := Archive{
		ByFile: make(map[string][]Scenario, len(arc.Files)),
		Order:  make([]string, 0, len(arc.Files)),
	}
	for _, f := range arc.Files {
		scenarios, err := ParseYAML(f.Data)
		if err != nil {
			return Archive{}, fmt.Errorf("fixtures: %s: %w", f.Name, err)
		}
		out.ByFile[f.Name] = scenarios
		out.Order = append(out.Order, f.Name)
	}
	return out, nil
}

// Flatten collects every scenario in the archive into a single
// ordered slice, file order preserved.
func (a Archive) Flatten() []Scenario {
	var out []Scenario
	for _, name := range a.Order {
		out = append(out, a.ByFile[name]...)
	}
	return out
}
