// Command genmock builds request fixtures and their expected station reports
// from a daily climate series. It uses the domain package directly so the
// expected reports match real pipeline output.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -in data/mock/villavicencio_2023_daily.json \
//	  -requests-out data/mock/requests.json \
//	  -reports-out data/mock/reports.json
//
// With -format power the input is a saved NASA POWER daily point response.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-eto-service/internal/adapter/power"
	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// processedAt is the fixed report timestamp shared with cmd/validate.
var processedAt = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "daily series JSON, or a POWER response with -format power")
	format := flag.String("format", "series", "input format: series or power")
	requestsOut := flag.String("requests-out", "", "output path for request fixtures")
	reportsOut := flag.String("reports-out", "", "output path for expected reports")
	country := flag.String("country", "Colombia", "station country")
	name := flag.String("name", "Villavicencio", "station name")
	lat := flag.Float64("lat", 4.6, "signed latitude in degrees")
	lon := flag.Float64("lon", -74.1, "signed longitude in degrees")
	alt := flag.Float64("alt", 100, "altitude in meters")
	flag.Parse()

	if *in == "" || *requestsOut == "" || *reportsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -in, -requests-out, -reports-out")
	}

	series, err := loadSeries(*in, *format)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *in, err)
	}
	log.Printf("loaded %d days", len(series))

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(processedAt))
	defer domain.SetClock(nil)

	station := stationFromSigned(*country, *name, *alt, *lat, *lon)
	requests, err := buildRequests(station, series)
	if err != nil {
		return err
	}

	reports := make([]domain.StationReport, 0, len(requests))
	for _, req := range requests {
		report, err := buildReport(req)
		if err != nil {
			return fmt.Errorf("request %s: %w", req.ID, err)
		}
		reports = append(reports, report)
	}

	if err := writeJSON(*requestsOut, requests); err != nil {
		return fmt.Errorf("writing request fixtures: %w", err)
	}
	log.Printf("wrote %d requests: %s", len(requests), *requestsOut)

	if err := writeJSON(*reportsOut, reports); err != nil {
		return fmt.Errorf("writing expected reports: %w", err)
	}
	log.Printf("wrote %d reports: %s", len(reports), *reportsOut)

	printStats(reports)
	return nil
}

func loadSeries(path, format string) (domain.DailySeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case "power":
		return power.ParseResponse(f)
	case "series":
		var series domain.DailySeries
		if err := json.NewDecoder(f).Decode(&series); err != nil {
			return nil, fmt.Errorf("decode series: %w", err)
		}
		return series, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func stationFromSigned(country, name string, alt, lat, lon float64) domain.StationInfo {
	st := domain.StationInfo{
		Country:             country,
		Name:                name,
		Altitude:            alt,
		Latitude:            math.Abs(lat),
		LatitudeHemisphere:  domain.North,
		Longitude:           math.Abs(lon),
		LongitudeHemisphere: domain.East,
	}
	if lat < 0 {
		st.LatitudeHemisphere = domain.South
	}
	if lon < 0 {
		st.LongitudeHemisphere = domain.West
	}
	return st
}

// buildRequests derives one request per origin and method: the daily series
// under both ETo sources, and monthly entries in non-standard units.
func buildRequests(station domain.StationInfo, series domain.DailySeries) ([]domain.ClimateRequest, error) {
	records, err := domain.Aggregate(series)
	if err != nil {
		return nil, err
	}

	fullKmDay := domain.Settings{Method: domain.MethodFullClimate, WindUnit: domain.WindKilometersPerDay}
	tempAverage := domain.Settings{Method: domain.MethodTemperatureOnly, TemperatureMode: domain.TemperatureAverage}
	tempOnly := domain.Settings{Method: domain.MethodTemperatureOnly}
	full := domain.Settings{}

	monthlyFull, err := monthlyEntries(records, station, fullKmDay)
	if err != nil {
		return nil, err
	}
	monthlyAverage, err := monthlyEntries(records, station, tempAverage)
	if err != nil {
		return nil, err
	}

	id := func(suffix string) string { return station.Name + "-" + suffix }
	return []domain.ClimateRequest{
		{ID: id("daily-hs"), Station: station, Settings: &tempOnly, Daily: series},
		{ID: id("daily-provider"), Station: station, Settings: &full, EToSource: domain.SourceProvider, Daily: series},
		{ID: id("monthly-pm"), Station: station, Settings: &fullKmDay, Monthly: monthlyFull},
		{ID: id("monthly-hs-average"), Station: station, Settings: &tempAverage, Monthly: monthlyAverage},
	}, nil
}

// monthlyEntries renders aggregated standard-unit records as raw monthly user
// input for settings s. Sunshine is derived from shortwave radiation.
func monthlyEntries(records [domain.MonthsPerYear]domain.MonthlyRecord, station domain.StationInfo, s domain.Settings) ([]map[string]string, error) {
	latRad := station.SignedLatitude() * math.Pi / 180
	out := make([]map[string]string, len(records))
	for i, rec := range records {
		values := map[domain.Field]*float64{
			domain.FieldTempMin:  rec.Climate.Value(domain.FieldTempMin),
			domain.FieldTempMax:  rec.Climate.Value(domain.FieldTempMax),
			domain.FieldHumidity: rec.Climate.Value(domain.FieldHumidity),
			domain.FieldWind:     rec.Climate.Value(domain.FieldWind),
		}
		if values[domain.FieldTempMin] != nil && values[domain.FieldTempMax] != nil {
			avg := (*values[domain.FieldTempMin] + *values[domain.FieldTempMax]) / 2
			values[domain.FieldTempAvg] = &avg
		}
		if rec.Provided.Radiation != nil {
			n := sunshineFromShortwave(*rec.Provided.Radiation, latRad, i)
			values[domain.FieldSunshine] = &n
		}

		climate := domain.NewClimate(s)
		for _, f := range climate.Fields() {
			var err error
			if climate, err = domain.WithValue(climate, f, values[f]); err != nil {
				return nil, fmt.Errorf("month %d: %w", i+1, err)
			}
		}
		climate = domain.FromStandardUnits(climate, s)

		entries := make(map[string]string, len(climate.Fields()))
		for _, f := range climate.Fields() {
			if v := climate.Value(f); v != nil {
				entries[f.String()] = strconv.FormatFloat(*v, 'f', 2, 64)
			}
		}
		out[i] = entries
	}
	return out, nil
}

// sunshineFromShortwave inverts the Angstrom relation Rs = (0.25 + 0.5 n/N) Ra
// to estimate sunshine hours n.
func sunshineFromShortwave(rs, latRad float64, monthIndex int) float64 {
	g := domain.SolarGeometryAt(latRad, domain.DayOfYear(monthIndex))
	if g.Ra <= 0 || g.MaxDayLength <= 0 {
		return 0
	}
	n := g.MaxDayLength * (rs/g.Ra - 0.25) / 0.5
	return math.Max(0, math.Min(g.MaxDayLength, n))
}

// buildReport round-trips the request through its wire form so the report is
// built exactly as the pipeline would build it.
func buildReport(req domain.ClimateRequest) (domain.StationReport, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return domain.StationReport{}, err
	}
	parsed, err := domain.ParseRequest(domain.RawEvent{Key: []byte(req.ID), Value: data})
	if err != nil {
		return domain.StationReport{}, err
	}
	return domain.BuildReport(parsed, domain.Settings{}, parsed.Daily)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(reports []domain.StationReport) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("%-10s", "month")
	for _, r := range reports {
		fmt.Printf(" %22s", r.RequestID)
	}
	fmt.Println()

	for m := 0; m < domain.MonthsPerYear; m++ {
		fmt.Printf("%-10s", time.Month(m+1).String())
		for _, r := range reports {
			fmt.Printf(" %22s", formatETo(r.Months[m].ETo))
		}
		fmt.Println()
	}

	fmt.Printf("%-10s", "available")
	for _, r := range reports {
		fmt.Printf(" %22d", r.Available())
	}
	fmt.Println()
}

func formatETo(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
