package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hyperjump/pdfqa/internal/indexer"
	"github.com/hyperjump/pdfqa/internal/models"
	"github.com/hyperjump/pdfqa/internal/retriever"
	"github.com/hyperjump/pdfqa/internal/session"
	"go.uber.org/zap"
)

const (
	uploadField        = "file"
	questionField      = "question"
	uploadStatusOK     = "File processed successfully"
	multipartMaxMemory = 8 << 20
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		s.respondError(w, http.StatusBadRequest, "only PDF files are accepted")
		return
	}
	s.logger.Debug("upload request", zap.String("name", name), zap.Int64("size", header.Size))

	path, cleanup, err := spool(file)
	if err != nil {
		s.logger.Error("upload: write temp file failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer cleanup()

	info, err := s.session.Load(r.Context(), name, path, session.ReleaseAfterRead(cleanup))
	if err != nil {
		s.logger.Error("upload: processing failed", zap.String("name", name), zap.Error(err))
		var ingest *indexer.IngestionError
		switch {
		case errors.Is(err, session.ErrSuperseded):
			s.respondError(w, http.StatusConflict, err.Error())
		case errors.As(err, &ingest):
			s.respondError(w, http.StatusBadRequest, "failed to process PDF: "+ingest.Error())
		default:
			s.respondError(w, http.StatusInternalServerError, "failed to process PDF: "+err.Error())
		}
		return
	}
	s.respondJSON(w, http.StatusOK, models.UploadResponse{Status: uploadStatusOK, Document: info})
}

// spool copies an upload to a temporary file. cleanup closes and removes it; calls after the
// first do nothing.
func spool(src io.Reader) (path string, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", "pdfqa-upload-*.pdf")
	if err != nil {
		return "", nil, err
	}
	var once sync.Once
	cleanup = func() {
		once.Do(func() {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		})
	}
	if _, err := io.Copy(tmp, src); err != nil {
		cleanup()
		return "", nil, err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		req.Question = r.FormValue(questionField)
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("chat request", zap.Int("question_chars", utf8.RuneCountInString(req.Question)))

	answer, err := s.session.Answer(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, retriever.ErrNoActiveIndex) {
			s.respondError(w, http.StatusBadRequest, retriever.ErrNoActiveIndex.Error())
			return
		}
		s.logger.Error("chat failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to answer question: "+err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.ChatResponse{Answer: answer})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
