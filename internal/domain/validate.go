package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RejectionError reports a value refused by the validation gate. Message is
// the canonical text shown to the user.
type RejectionError struct {
	Field   Field  `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a raw user value against the rule for f. It returns nil on
// accept and a *RejectionError on reject. It never modifies any state.
func Validate(f Field, raw string, res Resolution) error {
	rule, ok := res.Rule(f)
	if !ok {
		return notApplicable(f, raw)
	}
	if rule.IsText() {
		if utf8.RuneCountInString(raw) > rule.MaxLength {
			return reject(rule, raw)
		}
		return nil
	}
	_, err := parseInRange(rule, raw)
	return err
}

// ParseNumber validates raw like Validate and returns the parsed value.
func ParseNumber(f Field, raw string, res Resolution) (float64, error) {
	rule, ok := res.Rule(f)
	if !ok {
		return 0, notApplicable(f, raw)
	}
	if rule.IsText() {
		return 0, &RejectionError{Field: f, Value: raw, Message: f.Label() + " is not numeric"}
	}
	return parseInRange(rule, raw)
}

func parseInRange(rule Rule, raw string) (float64, error) {
	v, ok := parseDecimal(raw)
	if !ok || v < rule.Min || v > rule.Max {
		return 0, reject(rule, raw)
	}
	return v, nil
}

// parseDecimal accepts surrounding whitespace and a single decimal comma.
// Non-finite values do not parse.
func parseDecimal(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

func reject(rule Rule, raw string) *RejectionError {
	return &RejectionError{Field: rule.Field, Value: raw, Message: rule.Message}
}

func notApplicable(f Field, raw string) *RejectionError {
	return &RejectionError{
		Field:   f,
		Value:   raw,
		Message: f.Label() + " is not used with the current settings",
	}
}

// ValidateStation applies the station rules and joins every rejection.
func ValidateStation(st StationInfo, res Resolution) error {
	var errs []error
	check := func(f Field, raw string) {
		if err := Validate(f, raw, res); err != nil {
			errs = append(errs, err)
		}
	}

	check(FieldCountry, st.Country)
	check(FieldStationName, st.Name)
	check(FieldAltitude, formatFloat(st.Altitude))
	check(FieldLatitude, formatFloat(st.Latitude))
	check(FieldLongitude, formatFloat(st.Longitude))

	if st.LatitudeHemisphere != North && st.LatitudeHemisphere != South {
		errs = append(errs, &RejectionError{
			Field:   FieldLatitude,
			Value:   st.LatitudeHemisphere,
			Message: "Latitude hemisphere must be N or S",
		})
	}
	if st.LongitudeHemisphere != East && st.LongitudeHemisphere != West {
		errs = append(errs, &RejectionError{
			Field:   FieldLongitude,
			Value:   st.LongitudeHemisphere,
			Message: "Longitude hemisphere must be E or W",
		})
	}
	return errors.Join(errs...)
}

// Rejections flattens an error returned by Validate or ValidateStation into
// its rejection entries. Errors that are not rejections are skipped.
func Rejections(err error) []RejectionError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []RejectionError
		for _, e := range joined.Unwrap() {
			out = append(out, Rejections(e)...)
		}
		return out
	}
	var rej *RejectionError
	if errors.As(err, &rej) {
		return []RejectionError{*rej}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
