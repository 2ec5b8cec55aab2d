package domain

// Roles a user can hold. Only RoleUsuario records attendance.
const (
	RoleAdmin   = "admin"
	RoleEditor  = "editor"
	RoleUsuario = "usuario"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleUsuario:
		return true
	}
	return false
}

type EnforceRequest struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type RolePermissionsResponse struct {
	Role        string               `json:"role"`
	Permissions []PermissionResponse `json:"permissions"`
}
