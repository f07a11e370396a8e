package handler

import (
	"encoding/json"
	"net/http"

	"patient-manager/internal/delivery/dto"
	"patient-manager/internal/usecase"
	"patient-manager/pkg/response"
	"patient-manager/pkg/validator"
)

type VerificationHandler struct {
	verificationUsecase usecase.VerificationUsecase
	validator           *validator.CustomValidator
}

func NewVerificationHandler(verificationUsecase usecase.VerificationUsecase, validator *validator.CustomValidator) *VerificationHandler {
	return &VerificationHandler{
		verificationUsecase: verificationUsecase,
		validator:           validator,
	}
}

// VerifyEmail consumes the token from the query string. Failures are reported
// with success=false in the body rather than as plain error envelopes so the
// link target can render the outcome.
func (h *VerificationHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.JSON(w, http.StatusBadRequest, dto.VerifyEmailResponse{
			Success: false,
			Message: "Verification token is required",
		})
		return
	}

	message, err := h.verificationUsecase.VerifyEmail(r.Context(), token)
	if err != nil {
		switch err {
		case usecase.ErrInvalidToken:
			response.JSON(w, http.StatusBadRequest, dto.VerifyEmailResponse{
				Success: false,
				Message: "Invalid verification token",
			})
		case usecase.ErrTokenAlreadyUsed:
			response.JSON(w, http.StatusBadRequest, dto.VerifyEmailResponse{
				Success: false,
				Message: "Verification token has already been used",
			})
		case usecase.ErrTokenExpired:
			response.JSON(w, http.StatusBadRequest, dto.VerifyEmailResponse{
				Success: false,
				Message: "Verification token has expired",
			})
		default:
			response.JSON(w, http.StatusInternalServerError, dto.VerifyEmailResponse{
				Success: false,
				Message: "Failed to verify email",
			})
		}
		return
	}

	response.JSON(w, http.StatusOK, dto.VerifyEmailResponse{
		Success: true,
		Message: message,
	})
}

func (h *VerificationHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	message, err := h.verificationUsecase.ResendVerification(r.Context(), req.Email)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrEmailAlreadyVerified:
			response.BadRequest(w, "Email is already verified")
		default:
			response.InternalServerError(w, "Failed to resend verification")
		}
		return
	}

	response.Success(w, http.StatusOK, message, nil)
}
