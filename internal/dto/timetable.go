package dto

import "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"

// ── timetables ──

// SlotRequest one weekly slot. Reference ids accept "none" or "" for unset.
type SlotRequest struct {
	DayOfWeek     string  `json:"day_of_week"     binding:"required,weekday"`
	StartTime     string  `json:"start_time"      binding:"required,hhmm"`
	EndTime       string  `json:"end_time"        binding:"required,hhmm"`
	Type          string  `json:"type"            binding:"required,slottype"`
	Title         string  `json:"title"           binding:"omitempty,max=150"`
	SubjectID     *string `json:"subject_id"      binding:"omitempty,uuid|eq=none"`
	LabID         *string `json:"lab_id"          binding:"omitempty,uuid|eq=none"`
	BatchID       *string `json:"batch_id"        binding:"omitempty,uuid|eq=none"`
	FacultyUserID *string `json:"faculty_user_id" binding:"omitempty,uuid|eq=none"`
	Faculty       string  `json:"faculty"         binding:"omitempty,max=100"`
	Room          string  `json:"room"            binding:"omitempty,max=50"`
	BatchName     string  `json:"batch_name"      binding:"omitempty,max=50"`
}

// CreateTimetableRequest create a timetable
type CreateTimetableRequest struct {
	Name           string        `json:"name"            binding:"required,notblank,max=100"`
	Description    string        `json:"description"     binding:"omitempty,max=500"`
	AssignedGroups []string      `json:"assigned_groups" binding:"omitempty,dive,uuid"`
	Slots          []SlotRequest `json:"slots"           binding:"omitempty,max=500,dive"`
}

// UpdateTimetableRequest wholesale replacement; Version must match the stored row
type UpdateTimetableRequest struct {
	CreateTimetableRequest
	Version int `json:"version" binding:"required,min=1"`
}

// TimetableSummary list entry without slots
type TimetableSummary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	AssignedGroups []string `json:"assigned_groups"`
	SlotCount      int      `json:"slot_count"`
	Version        int      `json:"version"`
	UpdatedAt      string   `json:"updated_at"`
}

// TimetableResponse timetable with resolved, canonically ordered slots
type TimetableResponse struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	AssignedGroups []string     `json:"assigned_groups"`
	Slots          []model.Slot `json:"slots"`
	Version        int          `json:"version"`
	CreatedAt      string       `json:"created_at"`
	UpdatedAt      string       `json:"updated_at"`
}

// DayScheduleResponse the slots of one weekday
type DayScheduleResponse struct {
	TimetableID string       `json:"timetable_id"`
	Day         string       `json:"day"`
	Slots       []model.Slot `json:"slots"`
}
