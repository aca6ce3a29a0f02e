package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"
)

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFixture_Example(t *testing.T) {
	fx, err := LoadFixture("testdata/campus.yaml")
	require.NoError(t, err)

	assert.Equal(t, "A. P. Shah Institute of Technology", fx.Organization)
	require.Len(t, fx.Users, 4)
	assert.Equal(t, model.RoleStudent, fx.Users[3].Role, "role defaults to student")
	assert.Equal(t, []string{"B1", "B2"}, fx.Batches)
	require.Len(t, fx.Timetables, 1)
	assert.Len(t, fx.Timetables[0].Slots, 5)
}

func TestFixture_Validate(t *testing.T) {
	const admin = "users:\n  - {name: A, email: a@x.in, password: password1, role: admin}\n"
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no organization", admin, "organization is required"},
		{"no admin", "organization: X\nusers:\n  - {name: A, email: a@x.in, password: password1}\n", "admin"},
		{"short password", "organization: X\nusers:\n  - {name: A, email: a@x.in, password: short, role: admin}\n", "password"},
		{"duplicate email", "organization: X\n" + admin + "  - {name: B, email: A@X.in, password: password1}\n", "duplicate email"},
		{"unknown member", "organization: X\n" + admin + "groups:\n  - {name: G, members: [b@x.in]}\n", "unknown member"},
		{"unknown group", "organization: X\n" + admin + "timetables:\n  - {name: T, groups: [G]}\n", "unknown group"},
		{"bad day", "organization: X\n" + admin + "timetables:\n  - name: T\n    slots: [{day: monday, start: '09:00', end: '10:00', type: lecture}]\n", "invalid day"},
		{"end before start", "organization: X\n" + admin + "timetables:\n  - name: T\n    slots: [{day: Monday, start: '10:00', end: '09:00', type: lecture}]\n", "end must be after start"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFixture(writeFixture(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func testIndex() *index {
	idx := newIndex()
	idx.subjects["Data Structures"] = "sub-ds"
	idx.subjects["DS"] = "sub-ds"
	idx.labs["DBMSL"] = "lab-dbms"
	idx.batches["B1"] = "b-1"
	idx.users["kulkarni@apsit.edu.in"] = "fac-1"
	idx.lookups.Subjects["sub-ds"] = timetable.Ref{Name: "Data Structures", Abbreviation: "DS"}
	idx.lookups.Labs["lab-dbms"] = timetable.Ref{Name: "DBMS Lab", Abbreviation: "DBMSL"}
	idx.lookups.Batches["b-1"] = timetable.Ref{Name: "B1"}
	idx.lookups.FacultyUsers["fac-1"] = timetable.Ref{Name: "Prof. Kulkarni"}
	return idx
}

func TestBuildSlots_ResolvesAndOrders(t *testing.T) {
	slots, err := buildSlots([]SlotFixture{
		{Day: "Tuesday", Start: "09:00", End: "10:00", Type: "break"},
		{Day: "Monday", Start: "10:00", End: "12:00", Type: "lab", Lab: "DBMSL", Batch: "B1"},
		{Day: "Monday", Start: "10:00", End: "11:00", Type: "lecture", Subject: "DS", Faculty: "Kulkarni@apsit.edu.in", Room: "301"},
	}, testIndex())
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, "lecture", slots[0].Type)
	assert.Equal(t, "Data Structures", slots[0].Title)
	assert.Equal(t, "DS", slots[0].Abbreviation)
	assert.Equal(t, "Prof. Kulkarni", slots[0].Faculty)
	assert.Equal(t, "DBMS Lab", slots[1].Title)
	assert.Equal(t, "B1", slots[1].BatchName)
	assert.Equal(t, "Tuesday", slots[2].DayOfWeek)
}

func TestBuildSlots_Errors(t *testing.T) {
	_, err := buildSlots([]SlotFixture{{Day: "Monday", Start: "10:00", End: "11:00", Type: "lecture", Subject: "Maths"}}, testIndex())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown reference "Maths"`)

	_, err = buildSlots([]SlotFixture{{Day: "Monday", Start: "10:00", End: "11:00", Type: "lecture"}}, testIndex())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
}
