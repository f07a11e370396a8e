package handler

import (
	"io"
	"net/http"

	"patient-manager/internal/delivery/dto"
	"patient-manager/internal/usecase"
	"patient-manager/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type FileHandler struct {
	patientUsecase usecase.PatientUsecase
	fileUsecase    usecase.FileUsecase
}

func NewFileHandler(patientUsecase usecase.PatientUsecase, fileUsecase usecase.FileUsecase) *FileHandler {
	return &FileHandler{
		patientUsecase: patientUsecase,
		fileUsecase:    fileUsecase,
	}
}

func (h *FileHandler) UploadPatientFile(w http.ResponseWriter, r *http.Request) {
	patientID, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "File is required", nil)
		return
	}
	defer file.Close()

	fileType := r.FormValue("file_type")
	if fileType == "" {
		fileType = "other"
	}
	isPrimary := r.FormValue("is_primary") == "true"

	upload := &dto.UploadedFile{
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Reader:       file,
	}

	uploaded, err := h.patientUsecase.UploadFile(r.Context(), patientID, upload, fileType, isPrimary)
	if err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "Patient not found")
		} else {
			response.InternalServerError(w, "Failed to upload file")
		}
		return
	}

	response.Success(w, http.StatusCreated, "File uploaded successfully", uploaded)
}

func (h *FileHandler) ListPatientFiles(w http.ResponseWriter, r *http.Request) {
	patientID, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	files, err := h.patientUsecase.ListFiles(r.Context(), patientID, r.URL.Query().Get("file_type"))
	if err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "Patient not found")
		} else {
			response.InternalServerError(w, "Failed to list files")
		}
		return
	}

	response.Success(w, http.StatusOK, "Files retrieved successfully", files)
}

func (h *FileHandler) DeletePatientFile(w http.ResponseWriter, r *http.Request) {
	patientID, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(mux.Vars(r)["fileId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid file ID", nil)
		return
	}

	if err := h.patientUsecase.DeleteFile(r.Context(), patientID, fileID); err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrPatientFileNotFound:
			response.NotFound(w, "File not found")
		default:
			response.InternalServerError(w, "Failed to delete file")
		}
		return
	}

	response.Success(w, http.StatusOK, "File deleted successfully", nil)
}

// DownloadFile streams the stored object back with its original name and
// content type.
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	if filename == "" {
		response.Error(w, http.StatusBadRequest, "Filename is required", nil)
		return
	}

	file, err := h.fileUsecase.Download(r.Context(), filename)
	if err != nil {
		if err == usecase.ErrFileNotFound {
			response.NotFound(w, "File not found")
		} else {
			response.InternalServerError(w, "Failed to download file")
		}
		return
	}
	defer file.Reader.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.OriginalName+`"`)
	io.Copy(w, file.Reader)
}
