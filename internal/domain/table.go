package domain

import (
	"fmt"
	"strings"
	"time"
)

// Table is the twelve-month working set for one station. Its record shape
// always matches the settings it was built with.
type Table struct {
	settings   Settings
	resolution Resolution
	records    [MonthsPerYear]MonthlyRecord
}

// NewTable returns a table of twelve empty records shaped by s.
func NewTable(s Settings) *Table {
	t := &Table{}
	t.Reconfigure(s)
	return t
}

// Reconfigure replaces the settings and regenerates every record empty.
// Entered values are discarded.
func (t *Table) Reconfigure(s Settings) {
	t.settings = s
	t.resolution = Resolve(s)
	for i := range t.records {
		t.records[i] = MonthlyRecord{Month: time.Month(i + 1), Climate: NewClimate(s)}
	}
}

func (t *Table) Settings() Settings { return t.settings }

func (t *Table) Resolution() Resolution { return t.resolution }

// Records returns a copy of the twelve records.
func (t *Table) Records() [MonthsPerYear]MonthlyRecord { return t.records }

// Edit sets field f of a month from a raw user string. An empty string clears
// the field. A rejected value leaves the table unchanged.
func (t *Table) Edit(monthIndex int, f Field, raw string) error {
	if monthIndex < 0 || monthIndex >= MonthsPerYear {
		return fmt.Errorf("%w: %d", ErrMonthIndex, monthIndex)
	}
	if f.IsStation() || !t.resolution.Requires(f) {
		return notApplicable(f, raw)
	}

	var value *float64
	if strings.TrimSpace(raw) != "" {
		v, err := ParseNumber(f, raw, t.resolution)
		if err != nil {
			return err
		}
		value = &v
	}

	rec := &t.records[monthIndex]
	c, err := WithValue(rec.Climate, f, value)
	if err != nil {
		return err
	}
	rec.Climate = c
	rec.Radiation, rec.ETo = nil, nil
	return nil
}

// LoadAggregated replaces the records with the output of Aggregate. The table
// must use AggregatedSettings so that entered units match the standard units
// produced by aggregation.
func (t *Table) LoadAggregated(records [MonthsPerYear]MonthlyRecord) error {
	if t.settings != AggregatedSettings(t.settings) {
		return fmt.Errorf("%w: aggregated data needs %s, table uses %s",
			ErrRecordShape, AggregatedSettings(t.settings), t.settings)
	}
	for i, src := range records {
		c := NewClimate(t.settings)
		if src.Climate != nil {
			for _, f := range c.Fields() {
				c, _ = c.with(f, src.Climate.Value(f))
			}
		}
		t.records[i] = MonthlyRecord{
			Month:    time.Month(i + 1),
			Climate:  c,
			Provided: src.Provided,
		}
	}
	return nil
}

// Compute fills Radiation and ETo of every month and returns the estimates.
// Under SourceProvider the provided values are used instead of the formulas.
func (t *Table) Compute(st StationInfo, source EToSource) [MonthsPerYear]Estimate {
	var out [MonthsPerYear]Estimate
	for i := range t.records {
		rec := &t.records[i]
		var est Estimate
		switch source {
		case SourceProvider:
			est = providedEstimate(rec.Provided, t.settings.EToUnit)
		default:
			est = ComputeETo(rec.Climate, i, st.SignedLatitude(), st.Altitude, t.settings)
		}
		rec.Radiation, rec.ETo = est.Radiation, est.ETo
		out[i] = est
	}
	return out
}

// YearlyAverages recomputes the yearly means from the current records.
func (t *Table) YearlyAverages() YearlyAverages {
	return ComputeYearlyAverages(t.records[:])
}

func providedEstimate(p Estimate, unit EToUnit) Estimate {
	if p.ETo == nil || !finite(*p.ETo) {
		return Estimate{}
	}
	eto := *p.ETo
	if unit == EToMillimetersPerPeriod {
		eto *= PeriodLength
	}
	est := Estimate{ETo: ptr(eto)}
	if p.Radiation != nil && finite(*p.Radiation) {
		est.Radiation = ptr(*p.Radiation)
	}
	return est
}
