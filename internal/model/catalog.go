package model

// Subject taught course (table subjects)
type Subject struct {
	SubjectID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string `gorm:"type:varchar(150);not null"                     json:"name"`
	Abbreviation   string `gorm:"type:varchar(20)"                               json:"abbreviation,omitempty"`
	Code           string `gorm:"type:varchar(30)"                               json:"code,omitempty"`
	SoftDeleteModel
}

// TableName table name
func (Subject) TableName() string { return "subjects" }

// Lab laboratory course (table labs)
type Lab struct {
	LabID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lab_id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string `gorm:"type:varchar(150);not null"                     json:"name"`
	Abbreviation   string `gorm:"type:varchar(20)"                               json:"abbreviation,omitempty"`
	SoftDeleteModel
}

// TableName table name
func (Lab) TableName() string { return "labs" }

// Batch student sub-division used for parallel lab sections (table batches)
type Batch struct {
	BatchID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"batch_id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string `gorm:"type:varchar(50);not null"                      json:"name"`
	SoftDeleteModel
}

// TableName table name
func (Batch) TableName() string { return "batches" }

// Room configured classroom or lab room (table rooms)
type Room struct {
	RoomID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string `gorm:"type:varchar(50);not null"                      json:"name"`
	Building       string `gorm:"type:varchar(100)"                              json:"building,omitempty"`
	Capacity       int    `gorm:"not null;default:0"                             json:"capacity"`
	SoftDeleteModel
}

// TableName table name
func (Room) TableName() string { return "rooms" }
