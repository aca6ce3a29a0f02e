package dto

// ── users ──

// UserListRequest user list query
type UserListRequest struct {
	Role string `form:"role" binding:"omitempty,oneof=admin faculty student"`
}

// CreateUserRequest admin-created account
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,notblank,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=admin faculty student"`
}

// UserResponse user without credentials
type UserResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	CreatedAt      string `json:"created_at"`
}
