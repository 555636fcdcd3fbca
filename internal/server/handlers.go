package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/internmatch/internal/ingestion"
	"github.com/jonathan/internmatch/internal/schemas"
	"github.com/jonathan/internmatch/internal/server/middleware"
	"github.com/jonathan/internmatch/internal/types"
)

// maxJSONBody bounds JSON request bodies; resumes pasted as text fit easily.
const maxJSONBody = 1 << 20

// readJSON reads the body, checks it against schema and decodes it into dst.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, schema schemas.Schema, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrPayloadTooLarge{Limit: tooLarge.Limit}
		}
		return &ErrValidation{Field: "body", Message: "could not read request body"}
	}
	if err := schemas.Validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	return nil
}

// handleRecommend extracts a profile from resume text and returns ranked listings.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req types.RecommendRequest
	if err := s.readJSON(w, r, schemas.Recommend, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	res, err := s.svc.Recommend(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.logger.Info("recommendations served",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Int("jobs", len(res.Jobs)),
		zap.Int("fetched", res.Report.Total),
		zap.String("notification", res.Notification),
	)
	s.jsonResponse(w, http.StatusOK, types.RecommendResponse{Jobs: res.Jobs})
}

// handleSubmitProfile ranks listings for a structured profile.
func (s *Server) handleSubmitProfile(w http.ResponseWriter, r *http.Request) {
	var sub types.ProfileSubmission
	if err := s.readJSON(w, r, schemas.Profile, &sub); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	res, err := s.svc.SubmitProfile(r.Context(), sub)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

// handleExtract converts an uploaded resume, or JSON resume text, into a profile.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var text string

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		var err error
		if text, err = s.readUpload(w, r); err != nil {
			s.errorResponse(w, r, err)
			return
		}
	} else {
		var req types.ExtractRequest
		if err := s.readJSON(w, r, schemas.Extract, &req); err != nil {
			s.errorResponse(w, r, err)
			return
		}
		if err := req.Validate(); err != nil {
			s.errorResponse(w, r, err)
			return
		}
		text = ingestion.CleanText(req.ResumeText)
	}

	profile := s.extractor.Extract(text)
	missing := profile.MissingFields()
	if missing == nil {
		missing = []types.ProfileField{}
	}
	s.jsonResponse(w, http.StatusOK, types.ExtractResponse{Profile: profile, Missing: missing, Text: text})
}

// readUpload returns the text of the multipart "file" field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, ingestion.MaxDocumentSize+maxJSONBody)
	if err := r.ParseMultipartForm(ingestion.MaxDocumentSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", &ErrPayloadTooLarge{Limit: ingestion.MaxDocumentSize}
		}
		return "", &ErrValidation{Field: "file", Message: "could not read the upload"}
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", &ErrValidation{Field: "file", Message: "a resume file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", &ErrValidation{Field: "file", Message: "could not read the upload"}
	}

	text, meta, err := ingestion.Ingest(header.Filename, data)
	if err != nil {
		return "", err
	}
	s.logger.Debug("resume ingested",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("format", string(meta.Format)),
		zap.Int("chars", meta.Chars),
		zap.String("hash", meta.Hash),
	)
	return text, nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	notifications := "disabled"
	if s.svc.NotificationsEnabled() {
		notifications = "enabled"
	}
	fallback := "disabled"
	if s.cfg.SearchFallback {
		fallback = "google"
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"notifications":   notifications,
		"search_fallback": fallback,
		"fetch_mode":      s.cfg.FetchMode,
		"sources":         s.svc.Sources(),
	})
}
