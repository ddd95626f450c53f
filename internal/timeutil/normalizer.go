// Package timeutil converts provider timestamps into the target zone used
// by the published schedule.
package timeutil

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // target zone must resolve on hosts without zoneinfo

	"ScheduleSync/internal/model"
)

const (
	// TargetZoneName Eastern wall clock; the artifact labels it EST year round.
	TargetZoneName = "America/New_York"
	TargetLabel    = "EST"

	DateLayout   = "2006-01-02"
	outputLayout = "2006-01-02 15:04"
)

// layouts carrying their own offset
var absoluteLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// layouts that need a source zone
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Normalizer pure conversion into the target zone. Zero value is not usable; use New.
type Normalizer struct {
	target *time.Location
}

// New loads the target zone.
func New() (*Normalizer, error) {
	loc, err := time.LoadLocation(TargetZoneName)
	if err != nil {
		return nil, fmt.Errorf("load target zone %s: %w", TargetZoneName, err)
	}
	return &Normalizer{target: loc}, nil
}

// MustNew is New for package-level wiring and tests.
func MustNew() *Normalizer {
	n, err := New()
	if err != nil {
		panic(err)
	}
	return n
}

// Location the target zone
func (n *Normalizer) Location() *time.Location { return n.target }

// Normalize resolves raw (interpreted in sourceZone when it has no offset)
// to an absolute instant expressed in the target zone.
func (n *Normalizer) Normalize(raw, sourceZone string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	sourceZone = strings.TrimSpace(sourceZone)
	if raw == "" {
		return time.Time{}, &model.MalformedTimestamp{Value: raw, Zone: sourceZone, Reason: "empty"}
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(n.target), nil
		}
	}

	for _, layout := range localLayouts {
		wall, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if sourceZone == "" {
			return time.Time{}, &model.MalformedTimestamp{Value: raw, Reason: "no offset and no source zone"}
		}
		loc, err := parseZone(sourceZone)
		if err != nil {
			return time.Time{}, &model.MalformedTimestamp{Value: raw, Zone: sourceZone, Reason: err.Error()}
		}
		t, err := resolveWallClock(wall, loc)
		if err != nil {
			return time.Time{}, &model.MalformedTimestamp{Value: raw, Zone: sourceZone, Reason: err.Error()}
		}
		return t.In(n.target), nil
	}

	return time.Time{}, &model.MalformedTimestamp{Value: raw, Zone: sourceZone, Reason: "unrecognized format"}
}

// Format renders t as "YYYY-MM-DD HH:MM EST" in the target zone.
func (n *Normalizer) Format(t time.Time) string {
	return t.In(n.target).Format(outputLayout) + " " + TargetLabel
}

// CalendarDate the target-zone date of t as YYYY-MM-DD
func (n *Normalizer) CalendarDate(t time.Time) string {
	return t.In(n.target).Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD as midnight in the target zone.
func (n *Normalizer) ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), n.target)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

// Today the current calendar date in the target zone, at midnight.
func (n *Normalizer) Today(now time.Time) time.Time {
	local := now.In(n.target)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, n.target)
}

// DayWindow [start, end) of the target-zone calendar day containing date.
func (n *Normalizer) DayWindow(date time.Time) (time.Time, time.Time) {
	local := date.In(n.target)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, n.target)
	end := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, n.target)
	return start, end
}

// parseZone accepts an IANA name ("America/Chicago", "UTC") or a fixed
// offset ("-04:00", "+0530", "Z").
func parseZone(zone string) (*time.Location, error) {
	if zone == "Z" {
		return time.UTC, nil
	}
	if strings.HasPrefix(zone, "+") || strings.HasPrefix(zone, "-") {
		for _, layout := range []string{"-07:00", "-0700", "-07"} {
			if t, err := time.Parse(layout, zone); err == nil {
				_, off := t.Zone()
				return time.FixedZone(zone, off), nil
			}
		}
		return nil, fmt.Errorf("invalid offset %q", zone)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("unknown zone %q", zone)
	}
	return loc, nil
}

// resolveWallClock maps a civil time in loc to exactly one instant. Wall
// clocks inside a DST gap have none, those inside a fall-back hour have two;
// both are rejected instead of guessed.
func resolveWallClock(wall time.Time, loc *time.Location) (time.Time, error) {
	civil := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, time.UTC)
	guess := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, loc)

	offsets := map[int]struct{}{}
	for _, probe := range []time.Time{guess.Add(-6 * time.Hour), guess, guess.Add(6 * time.Hour)} {
		_, off := probe.Zone()
		offsets[off] = struct{}{}
	}

	var found []time.Time
	for off := range offsets {
		cand := civil.Add(-time.Duration(off) * time.Second)
		local := cand.In(loc)
		if local.Year() == wall.Year() && local.YearDay() == wall.YearDay() &&
			local.Hour() == wall.Hour() && local.Minute() == wall.Minute() && local.Second() == wall.Second() {
			found = append(found, cand)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return time.Time{}, fmt.Errorf("local time does not exist in zone")
	default:
		return time.Time{}, fmt.Errorf("local time is ambiguous in zone")
	}
}
