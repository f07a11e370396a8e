package converter

import (
	"patient-manager/internal/delivery/dto"
	"patient-manager/internal/domain/entity"
)

// PatientFileToResponse flattens a link row plus its preloaded File relation.
func PatientFileToResponse(link *entity.PatientFile) *dto.FileResponse {
	if link == nil || link.File == nil {
		return nil
	}

	return &dto.FileResponse{
		ID:           link.File.ID,
		OriginalName: link.File.OriginalName,
		MimeType:     link.File.MimeType,
		SizeBytes:    link.File.SizeBytes,
		PublicURL:    link.File.PublicURL,
		UploadedAt:   link.File.UploadedAt,
		FileType:     link.FileType,
		IsPrimary:    link.IsPrimary,
	}
}

func PatientFilesToResponses(links []entity.PatientFile) []dto.FileResponse {
	responses := make([]dto.FileResponse, 0, len(links))
	for i := range links {
		if response := PatientFileToResponse(&links[i]); response != nil {
			responses = append(responses, *response)
		}
	}
	return responses
}
