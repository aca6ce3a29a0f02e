package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Days in week order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Slot types
const (
	SlotLecture     = "lecture"
	SlotLab         = "lab"
	SlotHonors      = "honors"
	SlotMentoring   = "mentoring"
	SlotBreak       = "break"
	SlotMiniProject = "mini-project"
)

// SlotTypes is the accepted set of slot types, in validation order.
var SlotTypes = []string{SlotLecture, SlotLab, SlotHonors, SlotMentoring, SlotBreak, SlotMiniProject}

// NoneSentinel is the legacy stored value meaning "not set".
const NoneSentinel = "none"

// IsValidDay reports whether d is one of Days (case-sensitive).
func IsValidDay(d string) bool {
	for _, v := range Days {
		if v == d {
			return true
		}
	}
	return false
}

// IsValidSlotType reports whether t is one of SlotTypes.
func IsValidSlotType(t string) bool {
	for _, v := range SlotTypes {
		if v == t {
			return true
		}
	}
	return false
}

// TitleRequired reports whether slots of type t must carry a title.
func TitleRequired(t string) bool {
	return t == SlotLecture || t == SlotLab || t == SlotHonors
}

// Slot one weekly-recurring occurrence inside a timetable.
// The reference ids are optional; the display fields next to them are
// derived from the referenced records whenever the id is set.
type Slot struct {
	DayOfWeek     string  `json:"day_of_week"`
	StartTime     string  `json:"start_time"` // HH:MM
	EndTime       string  `json:"end_time"`   // HH:MM
	Type          string  `json:"type"`
	Title         string  `json:"title,omitempty"`
	SubjectID     *string `json:"subject_id,omitempty"`
	LabID         *string `json:"lab_id,omitempty"`
	BatchID       *string `json:"batch_id,omitempty"`
	FacultyUserID *string `json:"faculty_user_id,omitempty"`
	Faculty       string  `json:"faculty,omitempty"`
	Room          string  `json:"room,omitempty"`
	BatchName     string  `json:"batch_name,omitempty"`
	Abbreviation  string  `json:"abbreviation,omitempty"`
}

// UnmarshalJSON decodes a slot and drops empty or "none" reference ids,
// which older stored documents use for "no reference".
func (s *Slot) UnmarshalJSON(data []byte) error {
	type rawSlot Slot
	var raw rawSlot
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Slot(raw)
	s.SubjectID = NormalizeRef(s.SubjectID)
	s.LabID = NormalizeRef(s.LabID)
	s.BatchID = NormalizeRef(s.BatchID)
	s.FacultyUserID = NormalizeRef(s.FacultyUserID)
	return nil
}

// NormalizeRef returns nil for an absent, empty or "none" reference.
func NormalizeRef(id *string) *string {
	if id == nil || *id == "" || *id == NoneSentinel {
		return nil
	}
	return id
}

// SlotList maps a JSONB slot array via Scanner/Valuer.
type SlotList []Slot

// Scan decodes the JSONB column.
func (l *SlotList) Scan(src interface{}) error {
	if src == nil {
		*l = SlotList{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("SlotList.Scan: unsupported type %T", src)
	}
	var slots []Slot
	if err := json.Unmarshal(b, &slots); err != nil {
		return fmt.Errorf("SlotList.Scan: %w", err)
	}
	if slots == nil {
		slots = []Slot{}
	}
	*l = slots
	return nil
}

// Value encodes the list as a JSON array, never null.
func (l SlotList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Slot(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
