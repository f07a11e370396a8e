package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"patient-manager/internal/delivery/dto"
	"patient-manager/internal/usecase"
	"patient-manager/pkg/response"
	"patient-manager/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxUploadSize caps multipart bodies at 10 MiB.
const maxUploadSize = 10 << 20

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// CreatePatient accepts either a JSON body or a multipart form with an
// optional "document" file part alongside the patient fields.
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	var document *dto.UploadedFile

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
			return
		}

		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.PhoneNumber = r.FormValue("phone_number")

		file, header, err := r.FormFile("document")
		if err == nil {
			defer file.Close()
			document = &dto.UploadedFile{
				OriginalName: header.Filename,
				ContentType:  header.Header.Get("Content-Type"),
				Size:         header.Size,
				Reader:       file,
			}
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Create(r.Context(), &req, document)
	if err != nil {
		switch err {
		case usecase.ErrEmailConflict:
			response.Conflict(w, "Patient with this email already exists")
		case usecase.ErrEmailConflictDeleted:
			response.Conflict(w, "This email was previously used by a deleted patient. Please use a different email or restore the deleted patient.")
		default:
			response.InternalServerError(w, "Failed to create patient")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	query := dto.ParsePaginationQuery(r.URL.Query())

	list, err := h.patientUsecase.List(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to list patients")
		return
	}

	meta := response.NewMeta(list.Page, list.Limit, list.Total)
	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", list.Patients, meta)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	patient, err := h.patientUsecase.Get(r.Context(), id)
	if err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "Patient not found")
		} else {
			response.InternalServerError(w, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrEmailConflict:
			response.Conflict(w, "Patient with this email already exists")
		case usecase.ErrEmailConflictDeleted:
			response.Conflict(w, "This email was previously used by a deleted patient. Please use a different email or restore the deleted patient.")
		default:
			response.InternalServerError(w, "Failed to update patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	if err := h.patientUsecase.Delete(r.Context(), id); err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "Patient not found")
		} else {
			response.InternalServerError(w, "Failed to delete patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

func (h *PatientHandler) RestorePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	patient, err := h.patientUsecase.Restore(r.Context(), id)
	if err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "Deleted patient not found")
		} else {
			response.InternalServerError(w, "Failed to restore patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient restored successfully", patient)
}

func (h *PatientHandler) ListDeletedPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.ListDeleted(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list deleted patients")
		return
	}

	response.Success(w, http.StatusOK, "Deleted patients retrieved successfully", patients)
}

func (h *PatientHandler) ListAllPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.ListAllIncludingDeleted(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func parsePatientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
