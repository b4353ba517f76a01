package fixtures

import "embed"

//go:embed testdata/narrowing.yaml testdata/solver.yaml testdata/bundle.txtar
var testdataFS embed.FS

// LoadBundled parses every scenario embedded under testdata/, merging
// narrowing.yaml, solver.yaml, and bundle.txtar and deduping by name.
// The archive intentionally repeats a subset of the two plain YAML
// files' scenarios so the txtar parsing path is exercised by real
// data too, rather than only by its own test fixture.
func LoadBundled() ([]Scenario, error) {
	narrowingData, err := testdataFS.ReadFile("testdata/narrowing.yaml")
	if err != nil {
		return nil, err
	}
	narrowing, err := ParseYAML(narrowingData)
	if err != nil {
		return nil, err
	}

	solverData, err := testdataFS.ReadFile("testdata/solver.yaml")
	if err != nil {
		return nil, err
	}
	solverScenarios, err := ParseYAML(solverData)
	if err != nil {
		return nil, err
	}

	bundleData, err := testdataFS.ReadFile("testdata/bundle.txtar")
	if err != nil {
		return nil, err
	}
	bundle, err := ParseArchive(bundleData)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var all []Scenario
	for _, s := range append(append(narrowing, solverScenarios...), bundle.Flatten()...) {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		all = append(all, s)
	}
	return all, nil
}
