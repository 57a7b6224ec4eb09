package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bookstruct/bookstruct/internal/parser"
	"github.com/bookstruct/bookstruct/internal/pipeline"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	profileName := r.FormValue("profile")
	if profileName != "" {
		if _, err := s.orchestrator.Pipeline().Profiles().Get(profileName); err != nil {
			jsonError(w, "unknown profile: "+profileName, http.StatusBadRequest)
			return
		}
	}

	bookID := r.FormValue("book_id")
	if bookID == "" {
		bookID = pipeline.ContentHashHex(data)[:16]
	}
	title := r.FormValue("title")

	now := time.Now()
	job := &pipeline.Job{
		ID:          pipeline.ContentHashHex([]byte(fmt.Sprintf("%s-%s-%d", bookID, filename, now.UnixNano())))[:20],
		BookID:      bookID,
		ProfileName: profileName,
		Status:      pipeline.StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		Title:       title,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"book_id":  job.BookID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/books/%s/status", job.BookID),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	job := s.orchestrator.JobForBook(bookID)
	if job == nil {
		jsonError(w, "no job for book", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// completedResult returns the classification result for a book, or writes
// an error response and returns nil.
func (s *Server) completedResult(w http.ResponseWriter, bookID string) *pipeline.Result {
	job := s.orchestrator.JobForBook(bookID)
	if job == nil {
		jsonError(w, "no job for book", http.StatusNotFound)
		return nil
	}
	res := job.Result()
	if res == nil {
		snap := job.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			jsonError(w, "classification failed", http.StatusConflict)
			return nil
		}
		jsonError(w, "classification not complete", http.StatusConflict)
		return nil
	}
	return res
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	res := s.completedResult(w, bookID)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"book_id":     bookID,
		"profile":     res.Profile.Name,
		"fingerprint": res.Fingerprint,
		"from_cache":  res.FromCache,
		"warnings":    res.Warnings,
		"tree":        res.Root,
	})
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	profileName := r.URL.Query().Get("profile")
	if profileName == "" {
		profileName = r.FormValue("profile")
	}
	if err := s.orchestrator.Pipeline().Invalidate(bookID, profileName); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"book_id":     bookID,
		"invalidated": true,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
