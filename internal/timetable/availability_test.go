package timetable

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
)

func facultySlot(start, end, uid, name string) model.Slot {
	return model.Slot{DayOfWeek: "Monday", StartTime: start, EndTime: end, Type: model.SlotLecture, FacultyUserID: ptr(uid), Faculty: name}
}

func TestFreeByWindow_FacultyScenario(t *testing.T) {
	pool := []Resource{{Key: "u1", Name: "Alice"}, {Key: "u2", Name: "Bob"}}
	slots := []model.Slot{{StartTime: "09:00", EndTime: "10:00", FacultyUserID: ptr("u1")}}

	got := FreeByWindow(KindFaculty, slots, pool, "")
	require.Len(t, got, 1)
	assert.Equal(t, Window{StartTime: "09:00", EndTime: "10:00"}, got[0].Window)
	assert.Equal(t, []string{"Bob"}, got[0].Free)
}

func TestFreeByWindow_RoomsUnreferenced(t *testing.T) {
	pool := RoomPool([]string{"C-101", "C-102"})
	slots := []model.Slot{
		{StartTime: "09:00", EndTime: "10:00", Room: ""},
		{StartTime: "10:00", EndTime: "11:00", Room: "none"},
	}

	got := FreeByWindow(KindRoom, slots, pool, "")
	require.Len(t, got, 2)
	for _, w := range got {
		assert.Equal(t, []string{"C-101", "C-102"}, w.Free)
	}

	empty := FreeByWindow(KindRoom, nil, pool, "")
	require.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestFreeByWindow_SearchFiltersNamesNotWindows(t *testing.T) {
	pool := RoomPool([]string{"C-101", "Lab-3"})
	slots := []model.Slot{
		{StartTime: "09:00", EndTime: "10:00", Room: "C-101"},
		{StartTime: "11:00", EndTime: "12:00", Room: "Lab-3"},
	}

	got := FreeByWindow(KindRoom, slots, pool, "  lab ")
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Lab-3"}, got[0].Free)
	assert.Empty(t, got[1].Free)
	assert.NotNil(t, got[1].Free)
}

func TestWindows_OrderAndDedup(t *testing.T) {
	slots := []model.Slot{
		{StartTime: "11:00", EndTime: "12:00"},
		{StartTime: "09:00", EndTime: "11:00"},
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "11:00", EndTime: "12:00"},
	}
	assert.Equal(t, []Window{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "09:00", EndTime: "11:00"},
		{StartTime: "11:00", EndTime: "12:00"},
	}, Windows(slots))
}

func TestFacultyPool_FirstSeenOrder(t *testing.T) {
	slots := []model.Slot{
		facultySlot("10:00", "11:00", "u2", "Bob"),
		facultySlot("09:00", "10:00", "u1", "Alice"),
		facultySlot("11:00", "12:00", "u2", "Bob"),
		{StartTime: "12:00", EndTime: "13:00", FacultyUserID: ptr("none")},
		{StartTime: "12:00", EndTime: "13:00"},
	}
	assert.Equal(t, []Resource{{Key: "u2", Name: "Bob"}, {Key: "u1", Name: "Alice"}}, FacultyPool(slots))
	assert.Empty(t, FacultyPool(nil))
}

func TestFacultyPool_NameFallback(t *testing.T) {
	slots := []model.Slot{
		facultySlot("09:00", "10:00", "u9", ""),
		facultySlot("10:00", "11:00", "u8", "  "),
		facultySlot("11:00", "12:00", "u9", "Prof. Rao"),
	}
	pool := FacultyPool(slots)
	assert.Equal(t, []Resource{{Key: "u9", Name: "Prof. Rao"}, {Key: "u8", Name: "u8"}}, pool)

	// u9 is busy at 09:00 only; no blank name is ever reported
	got := FreeByWindow(KindFaculty, slots[:2], FacultyPool(slots[:2]), "")
	require.Len(t, got, 2)
	assert.Equal(t, []string{"u8"}, got[0].Free)
	assert.Equal(t, []string{"u9"}, got[1].Free)
}

func TestFilterDay(t *testing.T) {
	slots := []model.Slot{{DayOfWeek: "Monday"}, {DayOfWeek: "Tuesday"}, {DayOfWeek: "Monday"}}
	assert.Len(t, FilterDay(slots, "Monday"), 2)
	assert.Empty(t, FilterDay(slots, "Sunday"))
}

func TestFreeByResource_ListsEveryResource(t *testing.T) {
	pool := RoomPool([]string{"C-101", "C-102"})
	slots := []model.Slot{
		{StartTime: "09:00", EndTime: "10:00", Room: "C-101"},
		{StartTime: "13:00", EndTime: "14:00", Room: "C-102"},
	}

	got := FreeByResource(KindRoom, pool, slots, nil, "")
	assert.Equal(t, []ResourceAvailability{
		{Resource: "C-101", FreeWindows: []string{"1:00 PM - 2:00 PM"}},
		{Resource: "C-102", FreeWindows: []string{"9:00 AM - 10:00 AM"}},
	}, got)
}

func TestFreeByResource_SelectedWindow(t *testing.T) {
	pool := RoomPool([]string{"C-101", "C-102"})
	slots := []model.Slot{
		{StartTime: "09:00", EndTime: "10:00", Room: "C-101"},
		{StartTime: "13:00", EndTime: "14:00", Room: "C-102"},
	}

	sel := Window{StartTime: "09:00", EndTime: "10:00"}
	got := FreeByResource(KindRoom, pool, slots, &sel, "")
	require.Len(t, got, 2)
	assert.Empty(t, got[0].FreeWindows)
	assert.Equal(t, []string{"9:00 AM - 10:00 AM"}, got[1].FreeWindows)

	missing := Window{StartTime: "15:00", EndTime: "16:00"}
	got = FreeByResource(KindRoom, pool, slots, &missing, "")
	require.Len(t, got, 2)
	for _, r := range got {
		assert.NotNil(t, r.FreeWindows)
		assert.Empty(t, r.FreeWindows)
	}
}

func TestFreeByResource_Search(t *testing.T) {
	pool := []Resource{{Key: "u1", Name: "Alice"}, {Key: "u2", Name: "Bob"}}
	got := FreeByResource(KindFaculty, pool, nil, nil, "BO")
	assert.Equal(t, []ResourceAvailability{{Resource: "Bob", FreeWindows: []string{}}}, got)
}

func randomFacultyDay(r *rand.Rand) ([]model.Slot, []Resource) {
	pool := make([]Resource, 1+r.Intn(6))
	for i := range pool {
		pool[i] = Resource{Key: fmt.Sprintf("u%d", i), Name: fmt.Sprintf("Teacher %d", i)}
	}
	windows := []Window{{"09:00", "10:00"}, {"10:00", "11:00"}, {"10:00", "12:00"}, {"14:00", "15:00"}}
	slots := make([]model.Slot, r.Intn(12))
	for i := range slots {
		w := windows[r.Intn(len(windows))]
		slots[i] = model.Slot{DayOfWeek: "Monday", StartTime: w.StartTime, EndTime: w.EndTime, Type: model.SlotLecture}
		if r.Intn(4) > 0 {
			p := pool[r.Intn(len(pool))]
			slots[i].FacultyUserID = ptr(p.Key)
			slots[i].Faculty = p.Name
		}
	}
	return slots, pool
}

func TestFreeByWindow_PartitionsPool(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		slots, pool := randomFacultyDay(r)
		for _, wa := range FreeByWindow(KindFaculty, slots, pool, "") {
			busy := busyIn(KindFaculty, slots, wa.Window)
			free := make(map[string]bool, len(wa.Free))
			for _, name := range wa.Free {
				free[name] = true
			}
			for _, p := range pool {
				// exactly one of free or busy
				require.NotEqual(t, free[p.Name], busy[p.Key], "resource %s in window %v", p.Key, wa.Window)
			}
			require.Len(t, wa.Free, len(free))
		}
	}
}

func TestAvailabilityViewsAgree(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for iter := 0; iter < 200; iter++ {
		slots, pool := randomFacultyDay(r)
		byWindow := FreeByWindow(KindFaculty, slots, pool, "")
		byResource := FreeByResource(KindFaculty, pool, slots, nil, "")
		require.Len(t, byResource, len(pool))

		for _, ra := range byResource {
			windows := make(map[string]bool, len(ra.FreeWindows))
			for _, w := range ra.FreeWindows {
				windows[w] = true
			}
			for _, wa := range byWindow {
				inWindow := false
				for _, name := range wa.Free {
					if name == ra.Resource {
						inWindow = true
					}
				}
				require.Equal(t, inWindow, windows[FormatWindow(wa.Window)])
			}
		}
	}
}

func TestClockHelpers(t *testing.T) {
	assert.Equal(t, 570, Minutes("09:30"))
	assert.Equal(t, 570, Minutes("9:30"))
	assert.Equal(t, 24*60, Minutes("25:00"))
	assert.Equal(t, 24*60, Minutes("noon"))

	assert.True(t, ValidClock("23:59"))
	assert.False(t, ValidClock("9:30"))
	assert.False(t, ValidClock("24:00"))

	assert.Equal(t, "9:00 AM", Format12h("09:00"))
	assert.Equal(t, "12:30 PM", Format12h("12:30"))
	assert.Equal(t, "12:00 AM", Format12h("00:00"))
	assert.Equal(t, "bogus", Format12h("bogus"))
}

func TestParseWindow(t *testing.T) {
	w, ok := ParseWindow("09:00-10:00")
	require.True(t, ok)
	assert.Equal(t, Window{StartTime: "09:00", EndTime: "10:00"}, w)

	w, ok = ParseWindow(" 13:00 - 14:30 ")
	require.True(t, ok)
	assert.Equal(t, "14:30", w.EndTime)

	for _, bad := range []string{"", "09:00", "9:00-10:00", "09:00-25:00", "a-b"} {
		_, ok := ParseWindow(bad)
		assert.False(t, ok, bad)
	}
}
