package model

// Timetable named set of weekly slots visible to its assigned groups (table timetables)
type Timetable struct {
	TimetableID    string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	OrganizationID string      `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Description    string      `gorm:"type:text"                                      json:"description,omitempty"`
	AssignedGroups StringArray `gorm:"type:uuid[];not null;default:'{}'"              json:"assigned_groups"`
	Slots          SlotList    `gorm:"type:jsonb;not null;default:'[]'"               json:"slots"`
	VersionedModel
}

// TableName table name
func (Timetable) TableName() string { return "timetables" }
