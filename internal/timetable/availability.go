package timetable

import (
	"sort"
	"strings"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
)

// Kind selects which slot field occupies a resource.
type Kind int

const (
	// KindFaculty matches resources by faculty user id.
	KindFaculty Kind = iota
	// KindRoom matches resources by room name.
	KindRoom
)

func (k Kind) String() string {
	if k == KindRoom {
		return "room"
	}
	return "faculty"
}

// Window is a distinct (start, end) pair observed among a day's slots.
type Window struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Resource is one candidate in an availability pool. Key is what slots are
// matched against (user id or room name); Name is what gets reported.
type Resource struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// WindowAvailability lists the free resources of one window.
type WindowAvailability struct {
	Window Window   `json:"window"`
	Free   []string `json:"free"`
}

// ResourceAvailability lists the windows one resource is free in.
type ResourceAvailability struct {
	Resource    string   `json:"resource"`
	FreeWindows []string `json:"free_windows"`
}

// FilterDay keeps the slots that fall on day.
func FilterDay(slots []model.Slot, day string) []model.Slot {
	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		if s.DayOfWeek == day {
			out = append(out, s)
		}
	}
	return out
}

// Windows returns the distinct windows of slots ordered by start time,
// then end time.
func Windows(slots []model.Slot) []Window {
	seen := make(map[Window]bool, len(slots))
	out := make([]Window, 0, len(slots))
	for _, s := range slots {
		w := Window{StartTime: s.StartTime, EndTime: s.EndTime}
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if a, b := Minutes(out[i].StartTime), Minutes(out[j].StartTime); a != b {
			return a < b
		}
		return Minutes(out[i].EndTime) < Minutes(out[j].EndTime)
	})
	return out
}

// FacultyPool collects the faculty referenced by slots, in first-seen order.
// Faculty without a slot on that day are not candidates. The reported name is
// the first non-empty display name seen for the id, else the id itself.
func FacultyPool(slots []model.Slot) []Resource {
	index := make(map[string]int)
	pool := make([]Resource, 0)
	for _, s := range slots {
		id := model.NormalizeRef(s.FacultyUserID)
		if id == nil {
			continue
		}
		name := strings.TrimSpace(s.Faculty)
		i, ok := index[*id]
		if !ok {
			index[*id] = len(pool)
			pool = append(pool, Resource{Key: *id, Name: name})
			continue
		}
		if pool[i].Name == "" {
			pool[i].Name = name
		}
	}
	for i := range pool {
		if pool[i].Name == "" {
			pool[i].Name = pool[i].Key
		}
	}
	return pool
}

// RoomPool builds the room pool from the configured room names.
func RoomPool(names []string) []Resource {
	pool := make([]Resource, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		pool = append(pool, Resource{Key: n, Name: n})
	}
	return pool
}

// occupant is the resource key a slot occupies, or "" for none.
func occupant(kind Kind, s model.Slot) string {
	if kind == KindRoom {
		if s.Room == model.NoneSentinel {
			return ""
		}
		return s.Room
	}
	if id := model.NormalizeRef(s.FacultyUserID); id != nil {
		return *id
	}
	return ""
}

func busyIn(kind Kind, slots []model.Slot, w Window) map[string]bool {
	busy := make(map[string]bool)
	for _, s := range slots {
		if s.StartTime != w.StartTime || s.EndTime != w.EndTime {
			continue
		}
		if key := occupant(kind, s); key != "" {
			busy[key] = true
		}
	}
	return busy
}

func matchesSearch(name, search string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

// FreeByWindow reports, for every window of slots, the pool members not
// occupied in it. search filters the free names, never the windows.
func FreeByWindow(kind Kind, slots []model.Slot, pool []Resource, search string) []WindowAvailability {
	windows := Windows(slots)
	out := make([]WindowAvailability, 0, len(windows))
	for _, w := range windows {
		busy := busyIn(kind, slots, w)
		free := make([]string, 0, len(pool))
		for _, r := range pool {
			if busy[r.Key] || !matchesSearch(r.Name, search) {
				continue
			}
			free = append(free, r.Name)
		}
		out = append(out, WindowAvailability{Window: w, Free: free})
	}
	return out
}

// FreeByResource is the per-resource view of FreeByWindow. When selected is
// set only that window is considered.
func FreeByResource(kind Kind, pool []Resource, slots []model.Slot, selected *Window, search string) []ResourceAvailability {
	windows := Windows(slots)
	if selected != nil {
		filtered := windows[:0]
		for _, w := range windows {
			if w == *selected {
				filtered = append(filtered, w)
			}
		}
		windows = filtered
	}

	busy := make([]map[string]bool, len(windows))
	for i, w := range windows {
		busy[i] = busyIn(kind, slots, w)
	}

	out := make([]ResourceAvailability, 0, len(pool))
	for _, r := range pool {
		if !matchesSearch(r.Name, search) {
			continue
		}
		free := make([]string, 0, len(windows))
		for i, w := range windows {
			if !busy[i][r.Key] {
				free = append(free, FormatWindow(w))
			}
		}
		out = append(out, ResourceAvailability{Resource: r.Name, FreeWindows: free})
	}
	return out
}

// FormatWindow renders a window as "9:00 AM - 10:00 AM".
func FormatWindow(w Window) string {
	return Format12h(w.StartTime) + " - " + Format12h(w.EndTime)
}

// ParseWindow parses "HH:MM-HH:MM".
func ParseWindow(s string) (Window, bool) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return Window{}, false
	}
	w := Window{StartTime: strings.TrimSpace(start), EndTime: strings.TrimSpace(end)}
	if !ValidClock(w.StartTime) || !ValidClock(w.EndTime) {
		return Window{}, false
	}
	return w, true
}
