package collaborator

type CreateCollaboratorRequest struct {
	Number   string `json:"number" binding:"omitempty,max=32"`
	Name     string `json:"name" binding:"required,max=255"`
	PuestoID string `json:"puesto_id" binding:"omitempty,uuid"`
	Active   *bool  `json:"active"`
}

type UpdateCollaboratorRequest struct {
	Number   string `json:"number" binding:"required,max=32"`
	Name     string `json:"name" binding:"required,max=255"`
	PuestoID string `json:"puesto_id" binding:"omitempty,uuid"`
}

type UpdateCollaboratorStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type CollaboratorResponse struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	Name        string `json:"name"`
	PuestoID    string `json:"puesto_id,omitempty"`
	Active      bool   `json:"active"`
	StatusLabel string `json:"status_label"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// VerifyResponse is what the front desk sees after a lookup.
type VerifyResponse struct {
	Found        bool                 `json:"found"`
	Active       bool                 `json:"active"`
	Collaborator CollaboratorResponse `json:"collaborator"`
}
