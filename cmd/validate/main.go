// Command validate checks generated fixtures against the ETo engine: every
// expected report is rebuilt from its request and compared, and report
// invariants (shape, units, ids, physical bounds, yearly averages) are
// verified.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -requests data/mock/requests.json \
//	  -reports data/mock/reports.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
)

// processedAt matches cmd/genmock.
var processedAt = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	requestsPath := flag.String("requests", "", "path to request fixtures")
	reportsPath := flag.String("reports", "", "path to expected reports")
	flag.Parse()

	if *requestsPath == "" || *reportsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*requestsPath, *reportsPath); code != 0 {
		os.Exit(code)
	}
}

func run(requestsPath, reportsPath string) int {
	domain.SetClock(clockwork.NewFakeClockAt(processedAt))
	defer domain.SetClock(nil)

	fmt.Println("=== ETo Fixture Validation ===")
	fmt.Println()

	requests, err := loadJSON[json.RawMessage](requestsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load requests: %v\n", err)
		return 1
	}
	reports, err := loadJSON[domain.StationReport](reportsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load reports: %v\n", err)
		return 1
	}
	if len(requests) != len(reports) {
		fmt.Fprintf(os.Stderr, "FATAL: %d requests but %d reports\n", len(requests), len(reports))
		return 1
	}

	phases := []*phase{
		validateRecomputation(requests, reports),
		validateShape(reports),
		validateBounds(reports),
		validateYearly(reports),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Reports: %d, months with ETo: %d\n", len(reports), countAvailable(reports))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func countAvailable(reports []domain.StationReport) int {
	n := 0
	for _, r := range reports {
		n += r.Available()
	}
	return n
}

// validateRecomputation rebuilds each report from its request.
func validateRecomputation(requests []json.RawMessage, expected []domain.StationReport) *phase {
	p := &phase{name: "Recomputation matches expected reports"}
	for i, body := range requests {
		req, err := domain.ParseRequest(domain.RawEvent{Value: body})
		if err != nil {
			p.errorf("request %d: %v", i, err)
			continue
		}
		got, err := domain.BuildReport(req, domain.Settings{}, req.Daily)
		if err != nil {
			p.errorf("request %s: %v", req.ID, err)
			continue
		}
		if diff := cmp.Diff(expected[i], roundTrip(got)); diff != "" {
			p.errorf("request %s (-want +got):\n%s", req.ID, diff)
		}
	}
	return p
}

// roundTrip passes a report through JSON so it compares equal to a decoded fixture.
func roundTrip(r domain.StationReport) domain.StationReport {
	data, err := r.Marshal()
	if err != nil {
		return r
	}
	var out domain.StationReport
	if err := json.Unmarshal(data, &out); err != nil {
		return r
	}
	return out
}

func validateShape(reports []domain.StationReport) *phase {
	p := &phase{name: "Report shape, units and ids"}
	for _, r := range reports {
		if want := domain.ReportID(r.RequestID, r.Station); r.ID != want {
			p.errorf("%s: id %s, want %s", r.RequestID, r.ID, want)
		}
		if len(r.Months) != domain.MonthsPerYear {
			p.errorf("%s: %d months", r.RequestID, len(r.Months))
			continue
		}
		res := domain.Resolve(r.Settings)
		if diff := cmp.Diff(res.UnitLabels, r.Units); diff != "" {
			p.errorf("%s: unit labels (-want +got):\n%s", r.RequestID, diff)
		}
		for i, m := range r.Months {
			if m.Month != i+1 || m.Name != time.Month(i+1).String() {
				p.errorf("%s: month %d labelled %d %q", r.RequestID, i+1, m.Month, m.Name)
			}
			for _, f := range res.RequiredFields {
				if _, ok := m.Values[f]; !ok {
					p.errorf("%s %s: missing field %s", r.RequestID, m.Name, f)
				}
			}
			if len(m.Values) != len(res.RequiredFields) {
				p.errorf("%s %s: %d values for %d required fields", r.RequestID, m.Name, len(m.Values), len(res.RequiredFields))
			}
		}
	}
	return p
}

func validateBounds(reports []domain.StationReport) *phase {
	p := &phase{name: "Radiation and ETo are finite and non-negative"}
	check := func(r domain.StationReport, m domain.MonthReport, label string, v *float64) {
		if v == nil {
			return
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
			p.errorf("%s %s: %s = %g", r.RequestID, m.Name, label, *v)
		}
	}
	for _, r := range reports {
		for _, m := range r.Months {
			check(r, m, "radiation", m.Radiation)
			check(r, m, "eto", m.ETo)
		}
	}
	return p
}

func validateYearly(reports []domain.StationReport) *phase {
	p := &phase{name: "Yearly averages match monthly values"}
	for _, r := range reports {
		var sum float64
		var n int
		for _, m := range r.Months {
			if m.ETo != nil {
				sum += *m.ETo
				n++
			}
		}
		got := r.Yearly.Get(domain.FieldETo)
		switch {
		case n == 0 && got != nil:
			p.errorf("%s: yearly eto %g with no monthly values", r.RequestID, *got)
		case n > 0 && got == nil:
			p.errorf("%s: yearly eto missing", r.RequestID)
		case n > 0 && !floatEq(*got, sum/float64(n)):
			p.errorf("%s: yearly eto %g, want %g", r.RequestID, *got, sum/float64(n))
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
