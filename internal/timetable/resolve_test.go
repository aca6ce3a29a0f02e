package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
)

func ptr(s string) *string { return &s }

func testLookups() Lookups {
	return Lookups{
		Subjects:     map[string]Ref{"s1": {Name: "NEW NAME", Abbreviation: "NN"}, "s2": {Name: "Data Structures", Abbreviation: "DS"}},
		Labs:         map[string]Ref{"l1": {Name: "DBMS Lab", Abbreviation: "DBMSL"}},
		Batches:      map[string]Ref{"b1": {Name: "A1"}},
		FacultyUsers: map[string]Ref{"u1": {Name: "Alice"}},
	}
}

func TestResolve_StaleSubjectName(t *testing.T) {
	got := Resolve(model.Slot{Type: model.SlotLecture, SubjectID: ptr("s1"), Title: "OLD NAME"}, testLookups())
	assert.Equal(t, "NEW NAME", got.Title)
	assert.Equal(t, "NN", got.Abbreviation)
}

func TestResolve_LabWinsForLabType(t *testing.T) {
	got := Resolve(model.Slot{Type: model.SlotLab, LabID: ptr("l1"), SubjectID: ptr("s2")}, testLookups())
	assert.Equal(t, "DBMS Lab", got.Title)
	assert.Equal(t, "DBMSL", got.Abbreviation)
}

func TestResolve_LabIDIgnoredForNonLabType(t *testing.T) {
	got := Resolve(model.Slot{Type: model.SlotLecture, LabID: ptr("l1"), SubjectID: ptr("s2")}, testLookups())
	assert.Equal(t, "Data Structures", got.Title)
	assert.Equal(t, "DS", got.Abbreviation)
}

func TestResolve_DanglingLabDoesNotFallBackToSubject(t *testing.T) {
	got := Resolve(model.Slot{Type: model.SlotLab, LabID: ptr("gone"), SubjectID: ptr("s2"), Title: "kept"}, testLookups())
	assert.Equal(t, "kept", got.Title)
	assert.Empty(t, got.Abbreviation)
}

func TestResolve_DanglingReferencesKeepDisplayValues(t *testing.T) {
	in := model.Slot{
		Type:          model.SlotLecture,
		SubjectID:     ptr("missing"),
		BatchID:       ptr("missing"),
		FacultyUserID: ptr("missing"),
		Title:         "Legacy",
		BatchName:     "B2",
		Faculty:       "Old Prof",
	}
	got := Resolve(in, testLookups())
	assert.Equal(t, "Legacy", got.Title)
	assert.Equal(t, "B2", got.BatchName)
	assert.Equal(t, "Old Prof", got.Faculty)
}

func TestResolve_BatchAndFaculty(t *testing.T) {
	got := Resolve(model.Slot{Type: model.SlotLab, BatchID: ptr("b1"), FacultyUserID: ptr("u1"), Faculty: "stale"}, testLookups())
	assert.Equal(t, "A1", got.BatchName)
	assert.Equal(t, "Alice", got.Faculty)
}

func TestResolve_SentinelNormalization(t *testing.T) {
	got := Resolve(model.Slot{Type: model.SlotBreak, Room: "none", BatchName: "none", BatchID: ptr("none")}, Lookups{})
	assert.Equal(t, "", got.Room)
	assert.Equal(t, "", got.BatchName)
	assert.Nil(t, got.BatchID)
}

func TestResolve_EmptyLookupsAndNoRefs(t *testing.T) {
	in := model.Slot{DayOfWeek: "Friday", StartTime: "10:00", EndTime: "11:00", Type: model.SlotMentoring, Title: "Mentoring", Room: "C-101"}
	assert.Equal(t, in, Resolve(in, Lookups{}))
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	in := model.Slot{Type: model.SlotLecture, SubjectID: ptr("s1"), Title: "OLD NAME", Room: "none"}
	_ = Resolve(in, testLookups())
	assert.Equal(t, "OLD NAME", in.Title)
	assert.Equal(t, "none", in.Room)
}

func TestResolveAll(t *testing.T) {
	out := ResolveAll(nil, testLookups())
	require.NotNil(t, out)
	assert.Empty(t, out)

	out = ResolveAll([]model.Slot{{Type: model.SlotLecture, SubjectID: ptr("s2")}, {Type: model.SlotBreak}}, testLookups())
	require.Len(t, out, 2)
	assert.Equal(t, "Data Structures", out[0].Title)
	assert.Equal(t, model.SlotBreak, out[1].Type)
}
