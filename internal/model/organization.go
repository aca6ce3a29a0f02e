package model

// Organization tenant that owns every other record (table organizations)
type Organization struct {
	OrganizationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"organization_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

// TableName table name
func (Organization) TableName() string { return "organizations" }
