package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidStation wraps the joined station rejections of a request.
var ErrInvalidStation = errors.New("invalid station")

// reportNamespace scopes the name-based report ids.
var reportNamespace = uuid.MustParse("5b0c4f0e-8f0a-4d53-9a55-3f1f5e2f6c11")

// MonthReport is one month of a StationReport.
type MonthReport struct {
	Month     int                `json:"month"`
	Name      string             `json:"name"`
	Values    map[Field]*float64 `json:"values"`
	Radiation *float64           `json:"radiation"`
	ETo       *float64           `json:"eto"`
}

// MonthRejection is a monthly entry refused by the validation gate.
type MonthRejection struct {
	Month int `json:"month"`
	RejectionError
}

// StationReport is the sink-topic message.
type StationReport struct {
	ID          string           `json:"id"`
	RequestID   string           `json:"request_id"`
	Station     StationInfo      `json:"station"`
	Settings    Settings         `json:"settings"`
	EToSource   EToSource        `json:"eto_source"`
	Units       map[Field]string `json:"units"`
	Months      []MonthReport    `json:"months"`
	Yearly      YearlyAverages   `json:"yearly_averages"`
	Rejections  []MonthRejection `json:"rejections,omitempty"`
	ProcessedAt time.Time        `json:"processed_at"`
}

// Available counts the months that have an ETo value.
func (r StationReport) Available() int {
	n := 0
	for _, m := range r.Months {
		if m.ETo != nil {
			n++
		}
	}
	return n
}

// Marshal serializes the report for the sink topic.
func (r StationReport) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("serialize station report: %w", err)
	}
	return data, nil
}

// ReportID derives a stable id from the request id and station identity, so
// replays of the same request produce the same report id.
func ReportID(requestID string, st StationInfo) string {
	name := fmt.Sprintf("%s|%s|%s|%g%s|%g%s", requestID, st.Country, st.Name,
		st.Latitude, st.LatitudeHemisphere, st.Longitude, st.LongitudeHemisphere)
	return uuid.NewSHA1(reportNamespace, []byte(name)).String()
}

// BuildReport runs the engine for a request. daily is the merged inline and
// fetched series and is ignored for monthly requests.
func BuildReport(req ClimateRequest, defaults Settings, daily DailySeries) (StationReport, error) {
	settings := req.EffectiveSettings(defaults)
	if err := ValidateStation(req.Station, Resolve(settings)); err != nil {
		return StationReport{}, fmt.Errorf("request %s: %w: %w", req.ID, ErrInvalidStation, err)
	}

	var (
		table      *Table
		rejections []MonthRejection
	)
	if req.IsMonthly() {
		table = NewTable(settings)
		var err error
		rejections, err = applyMonthly(table, req.Monthly)
		if err != nil {
			return StationReport{}, fmt.Errorf("request %s: %w", req.ID, err)
		}
	} else {
		records, err := Aggregate(daily)
		if err != nil {
			return StationReport{}, fmt.Errorf("request %s: %w", req.ID, err)
		}
		table = NewTable(AggregatedSettings(settings))
		if err := table.LoadAggregated(records); err != nil {
			return StationReport{}, fmt.Errorf("request %s: %w", req.ID, err)
		}
	}

	table.Compute(req.Station, req.EToSource)
	return newReport(req, table, rejections), nil
}

// applyMonthly edits the table from raw monthly entries. Unknown field names
// fail the request; rejected values are collected.
func applyMonthly(table *Table, monthly []map[string]string) ([]MonthRejection, error) {
	var rejections []MonthRejection
	for i, entries := range monthly {
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			f, err := ParseField(name)
			if err != nil {
				return nil, fmt.Errorf("month %d: %w", i+1, err)
			}
			err = table.Edit(i, f, entries[name])
			var rej *RejectionError
			switch {
			case err == nil:
			case errors.As(err, &rej):
				rejections = append(rejections, MonthRejection{Month: i + 1, RejectionError: *rej})
			default:
				return nil, fmt.Errorf("month %d: %w", i+1, err)
			}
		}
	}
	return rejections, nil
}

func newReport(req ClimateRequest, table *Table, rejections []MonthRejection) StationReport {
	records := table.Records()
	months := make([]MonthReport, 0, len(records))
	for _, rec := range records {
		values := make(map[Field]*float64, len(rec.Climate.Fields()))
		for _, f := range rec.Climate.Fields() {
			values[f] = rec.Climate.Value(f)
		}
		months = append(months, MonthReport{
			Month:     int(rec.Month),
			Name:      rec.Month.String(),
			Values:    values,
			Radiation: rec.Radiation,
			ETo:       rec.ETo,
		})
	}

	return StationReport{
		ID:          ReportID(req.ID, req.Station),
		RequestID:   req.ID,
		Station:     req.Station,
		Settings:    table.Settings(),
		EToSource:   req.EToSource,
		Units:       table.Resolution().UnitLabels,
		Months:      months,
		Yearly:      table.YearlyAverages(),
		Rejections:  rejections,
		ProcessedAt: clock.Now().UTC(),
	}
}
