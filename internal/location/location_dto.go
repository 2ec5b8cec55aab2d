package location

type CreateLocationRequest struct {
	Name         string   `json:"name" binding:"required,max=255"`
	Description  string   `json:"description"`
	Latitude     *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	RadiusMeters *float64 `json:"radius_meters" binding:"omitempty,gt=0"`
}

// UpdateLocationRequest never touches the active flag; use the status endpoint.
type UpdateLocationRequest struct {
	Name         string   `json:"name" binding:"required,max=255"`
	Description  string   `json:"description"`
	Latitude     *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	RadiusMeters *float64 `json:"radius_meters" binding:"omitempty,gt=0"`
}

type UpdateLocationStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type LocationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	Active       bool    `json:"active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
