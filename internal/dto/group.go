package dto

// ── groups ──

// GroupRequest create or update a group
type GroupRequest struct {
	Name        string `json:"name"        binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Version     int    `json:"version"` // required on update
}

// SetMembersRequest replaces a group's members
type SetMembersRequest struct {
	MemberIDs []string `json:"member_ids" binding:"omitempty,dive,uuid"`
	Version   int      `json:"version"    binding:"required,min=1"`
}

// GroupResponse group with members
type GroupResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids"`
	Version     int      `json:"version"`
}
