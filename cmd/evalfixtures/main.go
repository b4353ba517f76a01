// Command evalfixtures runs the hand-written scenario runners
// against the YAML/txtar fixture tables in internal/fixtures/testdata
// and reports pass/fail, one line per scenario: a small standalone
// binary that exercises the library packages the same way a test
// would, but as a runnable report rather than a `go test` run.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/typeeval/internal/fixtures"
)

var (
	colorLevelOnce sync.Once
	colorLevelVal  int
)

// detectColorLevel respects NO_COLOR first, then falls back to no
// color at all when stdout isn't a terminal.
func detectColorLevel() int {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return 0
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return 0
	}
	if os.Getenv("TERM") == "dumb" {
		return 0
	}
	return 1
}

func colorLevel() int {
	colorLevelOnce.Do(func() { colorLevelVal = detectColorLevel() })
	return colorLevelVal
}

func ansiFg(code int, s string) string {
	if colorLevel() == 0 {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[39m", code, s)
}

func green(s string) string { return ansiFg(32, s) }
func red(s string) string   { return ansiFg(31, s) }
func yellow(s string) string { return ansiFg(33, s) }

// loadScenarios fetches the merged, deduped scenario list from the
// fixtures package's embedded testdata — embedding there, rather than
// reading paths relative to a process working directory, means this
// binary (and its tests) behave the same regardless of where they're
// invoked from.
func loadScenarios() ([]fixtures.Scenario, error) {
	all, err := fixtures.LoadBundled()
	if err != nil {
		return nil, fmt.Errorf("evalfixtures: %w", err)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func main() {
	scenarios, err := loadScenarios()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var failed, missing int
	for _, s := range scenarios {
		run, ok := runners[s.Name]
		if !ok {
			fmt.Printf("%s %-50s (engine=%s) no runner registered\n", yellow("MISS"), s.Name, s.Engine)
			missing++
			continue
		}
		pass, detail := run()
		status := green("PASS")
		if !pass {
			status = red("FAIL")
			failed++
		}
		fmt.Printf("%s %-50s %s\n", status, s.Name, detail)
	}

	total := len(scenarios)
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%d scenarios, %d failed, %d with no runner\n", total, failed, missing)

	if failed > 0 || missing > 0 {
		os.Exit(1)
	}
}
