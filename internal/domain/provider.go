package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned for fetch windows that are empty or reversed.
var ErrInvalidWindow = errors.New("invalid fetch window")

// DailyProvider fetches daily observations for a point from an external source.
type DailyProvider interface {
	// FetchDaily returns the series for the inclusive window. Dates the source
	// has no data for are omitted.
	FetchDaily(ctx context.Context, latitude, longitude float64, window FetchWindow) (DailySeries, error)
}

// FetchWindow is an inclusive range of calendar days in UTC.
type FetchWindow struct {
	Start time.Time
	End   time.Time
}

// ParseFetchWindow parses YYYYMMDD start and end dates.
func ParseFetchWindow(start, end string) (FetchWindow, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return FetchWindow{}, fmt.Errorf("%w: start %q: %v", ErrInvalidWindow, start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return FetchWindow{}, fmt.Errorf("%w: end %q: %v", ErrInvalidWindow, end, err)
	}
	if e.Before(s) {
		return FetchWindow{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidWindow, end, start)
	}
	return FetchWindow{Start: s, End: e}, nil
}

func (w FetchWindow) String() string {
	return w.Start.Format(DateLayout) + "-" + w.End.Format(DateLayout)
}

// SplitByYear partitions the window at calendar-year boundaries.
func (w FetchWindow) SplitByYear() []FetchWindow {
	if w.End.Before(w.Start) {
		return nil
	}
	var out []FetchWindow
	start := w.Start
	for {
		yearEnd := time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
		if !yearEnd.Before(w.End) {
			out = append(out, FetchWindow{Start: start, End: w.End})
			return out
		}
		out = append(out, FetchWindow{Start: start, End: yearEnd})
		start = yearEnd.AddDate(0, 0, 1)
	}
}
