package dto

// SetActiveRequest activa o desactiva un usuario del negocio.
type SetActiveRequest struct {
	Active bool `json:"activo"`
}
