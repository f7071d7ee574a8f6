// Package sheet runs batches of expressions described in YAML files.
//
//	cases:
//	  - name: precedence
//	    expression: 2+3*4
//	    expect: 14
//	  - name: divide by zero
//	    expression: 5/0
//	    error: DivideByZero
package sheet

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/shuntcalc/pkg/keypad"
	"github.com/lemonberrylabs/shuntcalc/pkg/shunt"
)

// DefaultTolerance is the absolute tolerance used when a case sets none.
const DefaultTolerance = 1e-9

// Sheet is a list of cases.
type Sheet struct {
	Tolerance float64 `yaml:"tolerance,omitempty"`
	Cases     []Case  `yaml:"cases"`
}

// Case is a single expression with an optional expectation. At most one of
// Expect and Error may be set.
type Case struct {
	Name       string   `yaml:"name,omitempty"`
	Expression string   `yaml:"expression"`
	Expect     *float64 `yaml:"expect,omitempty"`
	Error      string   `yaml:"error,omitempty"`
}

// Outcome is the result of running one case.
type Outcome struct {
	Case  Case
	Value float64
	Err   error
	// Pass is false when the case had an expectation that was not met.
	Pass bool
}

// Load reads a sheet from a YAML file.
func Load(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a sheet.
func Parse(r io.Reader) (*Sheet, error) {
	var s Sheet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty sheet")
		}
		return nil, fmt.Errorf("parse sheet: %w", err)
	}
	for i, c := range s.Cases {
		if c.Expect != nil && c.Error != "" {
			return nil, fmt.Errorf("case %d (%s): expect and error are mutually exclusive", i, c.Label())
		}
	}
	return &s, nil
}

// Label returns the case name, falling back to its expression.
func (c Case) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Expression
}

// Run evaluates the cases, at most workers at a time (GOMAXPROCS if workers
// is not positive). Outcomes keep the order of the cases. Run stops early only
// if ctx is cancelled.
func (s *Sheet) Run(ctx context.Context, workers int) ([]Outcome, error) {
	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	outcomes := make([]Outcome, len(s.Cases))
	g, ctx := errgroup.WithContext(ctx)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i, c := range s.Cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = run(c, tol)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func run(c Case, tol float64) Outcome {
	v, err := shunt.Solve(keypad.Normalize(c.Expression))
	o := Outcome{Case: c, Value: v, Err: err, Pass: true}

	switch {
	case c.Error != "":
		kind, ok := shunt.KindOf(err)
		o.Pass = ok && kind.String() == c.Error
	case c.Expect != nil:
		o.Pass = err == nil && approxEqual(v, *c.Expect, tol)
	}
	return o
}

func approxEqual(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) <= tol
}

// Failed counts the outcomes that did not pass.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Pass {
			n++
		}
	}
	return n
}

// String renders an outcome as one report line.
func (o Outcome) String() string {
	mark := "ok  "
	if !o.Pass {
		mark = "FAIL"
	}
	got := keypad.FormatResult(o.Value)
	if o.Err != nil {
		kind, _ := shunt.KindOf(o.Err)
		got = "error " + kind.String()
	}

	switch {
	case o.Case.Error != "" && !o.Pass:
		return fmt.Sprintf("%s %s: got %s, want error %s", mark, o.Case.Label(), got, o.Case.Error)
	case o.Case.Expect != nil && !o.Pass:
		return fmt.Sprintf("%s %s: got %s, want %s", mark, o.Case.Label(), got, keypad.FormatResult(*o.Case.Expect))
	default:
		return fmt.Sprintf("%s %s = %s", mark, o.Case.Label(), got)
	}
}
