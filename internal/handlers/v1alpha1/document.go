package v1alpha1

import (
	"errors"
	"io"
	"net/http"

	"github.com/esgdesk/extraction-review/internal/handlers/v1alpha1/mappers"
	"github.com/esgdesk/extraction-review/internal/service"
)

const multipartMemory = 8 << 20

type uploadForm struct {
	OrgID    string `validate:"required,max=255"`
	FileName string `validate:"required,file_name"`
}

// (POST /api/v1/documents)
func (h *ServiceHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, err)
			return
		}
		badRequest(w, r, "expected a multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, r, "missing file")
		return
	}
	defer file.Close()

	form := uploadForm{OrgID: r.FormValue("org_id"), FileName: header.Filename}
	if err := h.validator.Struct(form); err != nil {
		writeError(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	result, err := h.documentSrv.Upload(r.Context(), service.UploadForm{
		OrgID:       form.OrgID,
		FileName:    form.FileName,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, mappers.UploadResultToApi(result))
}

// (GET /api/v1/jobs/{id})
func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "job")
	if !ok {
		return
	}

	job, err := h.documentSrv.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.JobToApi(*job))
}
