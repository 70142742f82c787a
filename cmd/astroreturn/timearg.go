package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thurmanmarka/astroreturn"
)

// timeLayouts are tried in order when parsing a time argument.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseInstant reads a time argument: empty means now, a bare number is a
// Julian Day, anything else is parsed in loc using timeLayouts.
func parseInstant(s string, loc *time.Location) (astroreturn.Instant, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return astroreturn.InstantOf(time.Now()), nil
	}
	if jd, err := strconv.ParseFloat(s, 64); err == nil {
		return astroreturn.Instant(jd), nil
	}

	var parseErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return astroreturn.InstantOf(t), nil
		}
		parseErr = err
	}
	return 0, fmt.Errorf("could not parse time %q: %w", s, parseErr)
}

func parseTarget(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "°"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target longitude %q: %w", s, err)
	}
	return v, nil
}

func location(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}
