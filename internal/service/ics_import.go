package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
)

// ── iCalendar import ─────────────────────────────────────────
//
// Turns an RFC 5545 feed into weekly slots:
//   - DTSTART/DTEND give the weekday and the HH:MM times (in loc)
//   - only single events and FREQ=WEEKLY rules are imported; BYDAY
//     yields one slot per listed day
//   - SUMMARY becomes the title, LOCATION the room
//   - a "Type: <slot type>" line in DESCRIPTION sets the type, default lecture
//   - events repeating the same day, times, title and room collapse into one
// ─────────────────────────────────────────────────────────────

const icsMaxFileSize = 5 * 1024 * 1024 // 5MB

// ParseSlotsICS reads VEVENTs into slots. Events it cannot place are skipped.
func ParseSlotsICS(reader io.Reader, loc *time.Location) ([]model.Slot, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	type key struct {
		day, start, end, title, room string
	}
	seen := make(map[key]bool)
	slots := make([]model.Slot, 0)

	for _, evt := range cal.Events() {
		for _, slot := range parseSlotEvent(evt, loc) {
			k := key{slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.Title, slot.Room}
			if seen[k] {
				continue
			}
			seen[k] = true
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// parseSlotEvent returns one slot per weekday the event occurs on: every
// BYDAY entry of a weekly rule, else the weekday of DTSTART.
func parseSlotEvent(evt *ics.VEvent, loc *time.Location) []model.Slot {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return nil
	}

	var days []string
	if rrule := evt.GetProperty(ics.ComponentPropertyRrule); rrule != nil {
		if rrulePart(rrule.Value, "FREQ") != "WEEKLY" {
			return nil
		}
		days = byDays(rrulePart(rrule.Value, "BYDAY"))
	}

	start, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return nil
	}
	end, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil || !end.After(start) || end.YearDay() != start.YearDay() {
		return nil
	}
	if len(days) == 0 {
		days = []string{start.Weekday().String()}
	}

	base := model.Slot{
		StartTime: start.Format("15:04"),
		EndTime:   end.Format("15:04"),
		Type:      model.SlotLecture,
		Title:     strings.TrimSpace(summary.Value),
	}
	if p := evt.GetProperty(ics.ComponentPropertyLocation); p != nil {
		base.Room = strings.TrimSpace(p.Value)
	}
	if p := evt.GetProperty(ics.ComponentPropertyDescription); p != nil {
		if t := typeFromDescription(p.Value); t != "" {
			base.Type = t
		}
	}

	slots := make([]model.Slot, 0, len(days))
	for _, d := range days {
		slot := base
		slot.DayOfWeek = d
		slots = append(slots, slot)
	}
	return slots
}

// typeFromDescription finds a "Type: x" line naming a known slot type.
func typeFromDescription(desc string) string {
	desc = strings.ReplaceAll(desc, `\n`, "\n")
	for _, line := range strings.Split(desc, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "type") {
			continue
		}
		if v := strings.ToLower(strings.TrimSpace(value)); model.IsValidSlotType(v) {
			return v
		}
	}
	return ""
}

// rrulePart extracts one part of an RRULE value such as
// FREQ=WEEKLY;BYDAY=MO,WE;COUNT=16, upper-cased.
func rrulePart(value, name string) string {
	for _, part := range strings.Split(value, ";") {
		k, v, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(k, name) {
			return strings.ToUpper(strings.TrimSpace(v))
		}
	}
	return ""
}

var icsWeekdays = map[string]string{
	"MO": "Monday", "TU": "Tuesday", "WE": "Wednesday", "TH": "Thursday",
	"FR": "Friday", "SA": "Saturday", "SU": "Sunday",
}

// byDays maps a BYDAY list ("MO,WE,FR", "1MO,-1FR") to day names in list
// order. Ordinal prefixes are dropped and unknown codes skipped.
func byDays(value string) []string {
	if value == "" {
		return nil
	}
	seen := make(map[string]bool)
	days := make([]string, 0, 7)
	for _, code := range strings.Split(value, ",") {
		code = strings.TrimLeft(strings.TrimSpace(code), "+-0123456789")
		day, ok := icsWeekdays[code]
		if !ok || seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	return days
}

// parseICSDateTime reads a DTSTART/DTEND style property into loc.
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range []string{"20060102T150405Z", "20060102T150405"} {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	// all-day values ("20060102") carry no time of day
	return time.Time{}, fmt.Errorf("cannot parse date-time %q", val)
}
