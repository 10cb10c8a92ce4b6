package dto

// LoginRequest carries the teacher credentials for the login endpoint.
type LoginRequest struct {
	UniRegID string `json:"uni_reg_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}
