package model

// Group set of users a timetable can be assigned to (table user_groups)
type Group struct {
	GroupID        string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	OrganizationID string      `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Description    string      `gorm:"type:text"                                      json:"description,omitempty"`
	MemberIDs      StringArray `gorm:"type:uuid[];not null;default:'{}'"              json:"member_ids"`
	VersionedModel
}

// TableName table name
func (Group) TableName() string { return "user_groups" }
