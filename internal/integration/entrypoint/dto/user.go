package dto

// UpdateProfileRequest is the body of PATCH /usuarios/usuario-autenticado.
// Omitted fields keep their value.
type UpdateProfileRequest struct {
	Name     *string `json:"nome" binding:"omitempty,max=100"`
	Nickname *string `json:"nickname" binding:"omitempty,max=50"`
}

// DeleteAccountRequest confirms account deletion with the current password.
type DeleteAccountRequest struct {
	Password string `json:"senha" binding:"required"`
}
