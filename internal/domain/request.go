package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoDataOrigin is returned for requests without monthly, daily or fetch data.
	ErrNoDataOrigin = errors.New("request has no data origin")

	// ErrConflictingOrigin is returned when monthly entries are combined with
	// daily or fetched data.
	ErrConflictingOrigin = errors.New("monthly entries cannot be combined with daily data")
)

// FetchRange is the wire form of a FetchWindow.
type FetchRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ClimateRequest is the source-topic message.
type ClimateRequest struct {
	ID        string      `json:"id"`
	Station   StationInfo `json:"station"`
	Settings  *Settings   `json:"settings,omitempty"`
	EToSource EToSource   `json:"eto_source"`

	// Monthly holds twelve maps of field name to raw user input.
	Monthly []map[string]string `json:"monthly,omitempty"`
	Daily   DailySeries         `json:"daily,omitempty"`
	Fetch   *FetchRange         `json:"fetch,omitempty"`

	window      FetchWindow
	rawSettings json.RawMessage
}

// ParseRequest decodes and checks a source message.
func ParseRequest(raw RawEvent) (ClimateRequest, error) {
	var req ClimateRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return ClimateRequest{}, fmt.Errorf("parse climate request: %w", err)
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}

	// Keep the settings object as sent so omitted axes can fall back to the
	// service defaults rather than the zero value.
	var envelope struct {
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(raw.Value, &envelope); err != nil {
		return ClimateRequest{}, fmt.Errorf("parse climate request: %w", err)
	}
	req.rawSettings = envelope.Settings

	switch {
	case req.Monthly != nil && (req.Daily != nil || req.Fetch != nil):
		return ClimateRequest{}, fmt.Errorf("parse climate request %s: %w", req.ID, ErrConflictingOrigin)
	case req.Monthly == nil && req.Daily == nil && req.Fetch == nil:
		return ClimateRequest{}, fmt.Errorf("parse climate request %s: %w", req.ID, ErrNoDataOrigin)
	case req.Monthly != nil && len(req.Monthly) != MonthsPerYear:
		return ClimateRequest{}, fmt.Errorf("parse climate request %s: %w: got %d months",
			req.ID, ErrMonthIndex, len(req.Monthly))
	}

	if req.Fetch != nil {
		w, err := ParseFetchWindow(req.Fetch.Start, req.Fetch.End)
		if err != nil {
			return ClimateRequest{}, fmt.Errorf("parse climate request %s: %w", req.ID, err)
		}
		req.window = w
	}
	return req, nil
}

// EffectiveSettings returns defaults overlaid with the axes the request sets.
func (r ClimateRequest) EffectiveSettings(defaults Settings) Settings {
	if r.rawSettings != nil {
		s := defaults
		// Already decoded once by ParseRequest, so this cannot fail.
		_ = json.Unmarshal(r.rawSettings, &s)
		return s
	}
	if r.Settings != nil {
		return *r.Settings
	}
	return defaults
}

// Window returns the parsed fetch window and whether the request asks for one.
func (r ClimateRequest) Window() (FetchWindow, bool) {
	return r.window, r.Fetch != nil
}

// IsMonthly reports whether the request carries manual monthly entries.
func (r ClimateRequest) IsMonthly() bool { return r.Monthly != nil }
