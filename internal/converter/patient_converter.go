package converter

import (
	"patient-manager/internal/delivery/dto"
	"patient-manager/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to its response DTO.
// documentURL may be empty when the patient has no document or URL
// generation failed.
func PatientToResponse(patient *entity.Patient, documentURL string) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:              patient.ID,
		Name:            patient.Name,
		Email:           patient.Email,
		PhoneNumber:     patient.PhoneNumber,
		IsEmailVerified: patient.IsEmailVerified,
		IsDeleted:       patient.IsDeleted,
		DocumentFileID:  patient.DocumentFileID,
		DocumentURL:     documentURL,
		CreatedAt:       patient.CreatedAt,
		UpdatedAt:       patient.UpdatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		responses = append(responses, *PatientToResponse(&patients[i], ""))
	}
	return responses
}
