// Package fixtures loads externally-authored scenario tables that
// drive the narrowing and solver test suites. A Scenario is pure
// descriptive data: name, one-line description, and which engine it
// exercises, not an executable program. The Go code that actually
// builds trees/types and asserts against an engine lives in each
// scenario's matching runner (cmd/evalfixtures wires scenario names
// to runners; *_test.go files wire them to testing.T).
//
// Scenarios are authored as YAML and can be bundled into a single
// txtar archive when a fixture set spans several logical files; the
// narrowing shapes and solver scenarios are easier to keep in one
// archive than one YAML file per shape.
package fixtures

import "gopkg.in/yaml.v3"

// Engine names which of the two engines a Scenario exercises.
type Engine string

const (
	EngineNarrowing Engine = "narrowing"
	EngineSolver    Engine = "solver"
)

// Scenario is one named, documented test case. Name is the key a
// runner looks up to find the Go code that actually executes it.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Engine      Engine `yaml:"engine"`
}

// File is the top-level shape of one scenario YAML document.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// ParseYAML parses a single scenario YAML document.
func ParseYAML(data []byte) ([]Scenario, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Scenarios, nil
}
