package domain

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the calendar-date key format of daily series.
const DateLayout = "20060102"

// Daily series variable names.
const (
	VarTempMin   = "temp_min"
	VarTempMax   = "temp_max"
	VarHumidity  = "humidity"
	VarWind      = "wind"
	VarShortwave = "shortwave"
	VarETo       = "eto"
)

// DailySeries maps a YYYYMMDD date to its observed variables. Temperatures
// are °C, humidity is relative %, wind is m/s, shortwave is MJ m-2 day-1 and
// eto is mm/day.
type DailySeries map[string]map[string]float64

// Merge returns a new series holding the union of d and other. When both
// carry the same date and variable, the value from d wins.
func (d DailySeries) Merge(other DailySeries) DailySeries {
	out := make(DailySeries, len(d)+len(other))
	for _, src := range []DailySeries{other, d} {
		for date, vars := range src {
			dst, ok := out[date]
			if !ok {
				dst = make(map[string]float64, len(vars))
				out[date] = dst
			}
			for name, v := range vars {
				dst[name] = v
			}
		}
	}
	return out
}

// Dates returns the keys of the series in ascending order.
func (d DailySeries) Dates() []string {
	dates := make([]string, 0, len(d))
	for date := range d {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

type meanAccumulator struct {
	sum   float64
	count int
}

func (m *meanAccumulator) add(v float64) {
	m.sum += v
	m.count++
}

func (m *meanAccumulator) mean() *float64 {
	if m == nil || m.count == 0 {
		return nil
	}
	return ptr(m.sum / float64(m.count))
}

// Aggregate buckets a daily series by month of year, irrespective of year,
// and averages each variable per bucket. Records use the FullMinMax shape in
// standard units. Shortwave and eto go to Provided. Sunshine is never set.
// Months without observations are returned empty. Non-finite values are
// skipped. A key that is not a valid YYYYMMDD date is an error.
func Aggregate(series DailySeries) ([MonthsPerYear]MonthlyRecord, error) {
	var buckets [MonthsPerYear]map[string]*meanAccumulator

	for _, date := range series.Dates() {
		day, err := time.Parse(DateLayout, date)
		if err != nil {
			return [MonthsPerYear]MonthlyRecord{}, fmt.Errorf("aggregate: invalid date key %q: %w", date, err)
		}
		idx := int(day.Month()) - 1
		if buckets[idx] == nil {
			buckets[idx] = make(map[string]*meanAccumulator)
		}
		for name, v := range series[date] {
			if !finite(v) {
				continue
			}
			acc, ok := buckets[idx][name]
			if !ok {
				acc = &meanAccumulator{}
				buckets[idx][name] = acc
			}
			acc.add(v)
		}
	}

	var out [MonthsPerYear]MonthlyRecord
	for i, b := range buckets {
		out[i] = MonthlyRecord{
			Month: time.Month(i + 1),
			Climate: FullMinMax{
				TempMin:  b[VarTempMin].mean(),
				TempMax:  b[VarTempMax].mean(),
				Humidity: b[VarHumidity].mean(),
				Wind:     b[VarWind].mean(),
			},
			Provided: Estimate{
				Radiation: b[VarShortwave].mean(),
				ETo:       b[VarETo].mean(),
			},
		}
	}
	return out, nil
}
