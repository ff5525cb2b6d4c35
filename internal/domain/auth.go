package domain

// ============================================================
// Auth — Request / Response types (matches frontend API contract)
// ============================================================

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// RegisterResponse is the body for 201 from POST /auth/register.
type RegisterResponse struct {
	Msg    string `json:"msg"`
	UserID string `json:"userId"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body for 200 from POST /auth/login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// SubmitResponse is the body for 200 from POST /customers.
type SubmitResponse struct {
	Msg      string          `json:"msg"`
	Customer *CustomerRecord `json:"customer"`
}

// StatusUpdateRequest is the body for PATCH /customers/{id}/status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// RoleUpdateRequest is the body for PATCH /customers/admin/users/{id}/role.
type RoleUpdateRequest struct {
	Role string `json:"role"`
}
