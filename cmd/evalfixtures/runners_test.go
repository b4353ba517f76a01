package main

import "testing"

// TestRunners exercises every registered runner directly, the same
// assertions the binary's own report would make, so `go test` catches
// a broken scenario without needing to parse process output.
func TestRunners(t *testing.T) {
	for name, run := range runners {
		name, run := name, run
		t.Run(name, func(t *testing.T) {
			pass, detail := run()
			if !pass {
				t.Fatalf("%s", detail)
			}
		})
	}
}

func TestLoadScenarios_EveryNameHasARunner(t *testing.T) {
	scenarios, err := loadScenarios()
	if err != nil {
		t.Fatalf("loadScenarios: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatalf("expected at least one scenario")
	}
	for _, s := range scenarios {
		if _, ok := runners[s.Name]; !ok {
			t.Fatalf("scenario %q has no registered runner", s.Name)
		}
	}
}
