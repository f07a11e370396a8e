package dto

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
