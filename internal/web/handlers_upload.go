package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/datalens/internal/core"
)

// handleUpload accepts a multipart file, runs the pipeline and returns the
// dataset summary.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	result, err := s.receiveUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toDatasetResponse(result.Data, previewLimit(r)))
}

// handleUploadForm is the browser form variant of handleUpload.
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	if _, err := s.receiveUpload(w, r); err != nil {
		s.respondError(w, r, err)
		return
	}
	redirectHome(w, r)
}

// receiveUpload reads the "file" form part and hands it to the service.
// The declared part size is passed through so oversize files are rejected
// before parsing.
func (s *Server) receiveUpload(w http.ResponseWriter, r *http.Request) (*core.UploadResult, error) {
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize + multipartOverhead); err != nil {
		if isBodyTooLarge(err) {
			return nil, &core.FileTooLargeError{Size: r.ContentLength, Limit: maxSize}
		}
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: no file provided", errBadRequest)
	}
	defer file.Close()

	return s.service.Upload(r.Context(), header.Filename, header.Size, file)
}

// handleUploadStatus reports upload slot usage.
func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.UploadLimiterStatus())
}

func isBodyTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large")
}
