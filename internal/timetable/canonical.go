package timetable

import (
	"sort"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
)

var dayRank = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

// typeRank orders parallel slots for display. It intentionally differs from
// model.SlotTypes: mini-project sorts before break.
var typeRank = map[string]int{
	model.SlotLecture:     0,
	model.SlotLab:         1,
	model.SlotHonors:      2,
	model.SlotMentoring:   3,
	model.SlotMiniProject: 4,
	model.SlotBreak:       5,
}

// DayRank is the position of day in the week; unknown days rank last.
func DayRank(day string) int {
	if r, ok := dayRank[day]; ok {
		return r
	}
	return len(dayRank)
}

// TypeRank is the display position of a slot type; unknown types rank last.
func TypeRank(t string) int {
	if r, ok := typeRank[t]; ok {
		return r
	}
	return len(typeRank)
}

// Less is the canonical slot order: day, start time, type, title.
func Less(a, b model.Slot) bool {
	if da, db := DayRank(a.DayOfWeek), DayRank(b.DayOfWeek); da != db {
		return da < db
	}
	if ma, mb := Minutes(a.StartTime), Minutes(b.StartTime); ma != mb {
		return ma < mb
	}
	if ta, tb := TypeRank(a.Type), TypeRank(b.Type); ta != tb {
		return ta < tb
	}
	return a.Title < b.Title
}

// Canonicalize returns a new, stably sorted slice in canonical order.
// Applying it twice gives the same result as applying it once.
func Canonicalize(slots []model.Slot) []model.Slot {
	out := make([]model.Slot, len(slots))
	copy(out, slots)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}
