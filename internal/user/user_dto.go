package user

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin editor usuario"`
}

// UpdateUserRequest keeps the password unless a new one is given.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=admin editor usuario"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

type AssignLocationRequest struct {
	LocationID string `json:"location_id" binding:"required,uuid"`
}

type UserResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	LocationIDs []string `json:"location_ids"`
	CreatedAt   string   `json:"created_at"`
}

type AssignedLocationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	RadiusMeters float64 `json:"radius_meters"`
	Active       bool    `json:"active"`
}
