// Package timetable holds the slot algorithms shared by the timetable and
// availability services: reference resolution, canonical ordering and
// free-resource derivation. Everything here is pure and allocation-only.
package timetable

import "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"

// Ref is the projection of a lookup record the resolver needs.
type Ref struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// Lookups are organization-scoped id → Ref tables.
type Lookups struct {
	Subjects     map[string]Ref
	Labs         map[string]Ref
	Batches      map[string]Ref
	FacultyUsers map[string]Ref
}

// Resolve returns a copy of slot with its display fields re-derived from the
// referenced records. A reference that is not in lookups leaves the display
// field as it was.
func Resolve(slot model.Slot, lookups Lookups) model.Slot {
	out := slot
	out.SubjectID = model.NormalizeRef(slot.SubjectID)
	out.LabID = model.NormalizeRef(slot.LabID)
	out.BatchID = model.NormalizeRef(slot.BatchID)
	out.FacultyUserID = model.NormalizeRef(slot.FacultyUserID)

	switch {
	case out.Type == model.SlotLab && out.LabID != nil:
		if ref, ok := lookups.Labs[*out.LabID]; ok {
			out.Title = ref.Name
			out.Abbreviation = ref.Abbreviation
		}
	case out.SubjectID != nil:
		if ref, ok := lookups.Subjects[*out.SubjectID]; ok {
			out.Title = ref.Name
			out.Abbreviation = ref.Abbreviation
		}
	}

	if out.BatchID != nil {
		if ref, ok := lookups.Batches[*out.BatchID]; ok {
			out.BatchName = ref.Name
		}
	}

	if out.FacultyUserID != nil {
		if ref, ok := lookups.FacultyUsers[*out.FacultyUserID]; ok {
			out.Faculty = ref.Name
		}
	}

	if out.Room == model.NoneSentinel {
		out.Room = ""
	}
	if out.BatchName == model.NoneSentinel {
		out.BatchName = ""
	}

	return out
}

// ResolveAll resolves every slot, keeping order. Never returns nil.
func ResolveAll(slots []model.Slot, lookups Lookups) []model.Slot {
	out := make([]model.Slot, len(slots))
	for i := range slots {
		out[i] = Resolve(slots[i], lookups)
	}
	return out
}
