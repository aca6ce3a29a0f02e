package dto

// ── subjects / labs / batches / rooms ──

// SubjectRequest create or update a subject
type SubjectRequest struct {
	Name         string `json:"name"         binding:"required,notblank,max=150"`
	Abbreviation string `json:"abbreviation" binding:"omitempty,max=20"`
	Code         string `json:"code"         binding:"omitempty,max=30"`
}

// LabRequest create or update a lab
type LabRequest struct {
	Name         string `json:"name"         binding:"required,notblank,max=150"`
	Abbreviation string `json:"abbreviation" binding:"omitempty,max=20"`
}

// BatchRequest create or update a batch
type BatchRequest struct {
	Name string `json:"name" binding:"required,notblank,max=50"`
}

// RoomRequest create or update a room
type RoomRequest struct {
	Name     string `json:"name"     binding:"required,notblank,max=50"`
	Building string `json:"building" binding:"omitempty,max=100"`
	Capacity int    `json:"capacity" binding:"omitempty,min=0,max=10000"`
}

// CatalogResponse one subject, lab, batch or room
type CatalogResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Code         string `json:"code,omitempty"`
	Building     string `json:"building,omitempty"`
	Capacity     int    `json:"capacity,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
