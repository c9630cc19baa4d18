package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/validation"
	"pitch-workers/internal/models"
	"pitch-workers/internal/pitch"
	validatepitchdata "pitch-workers/internal/workers/pitch/validate-pitch-data"
)

const (
	msgSubmitted       = "Pitch submitted successfully"
	msgSubmitFailed    = "Failed to submit pitch. Please try again."
	msgInvalid         = "Please complete all required fields"
	msgInvalidFormat   = "Please check the highlighted fields"
	msgBadRequest      = "Request body must be JSON with a formData object"
	maxRequestBodySize = 1 << 20
)

type pitchRequest struct {
	FormData         map[string]interface{} `json:"formData"`
	SelectedAddOnIDs []string               `json:"selectedAddOnIds"`
}

type submitResponse struct {
	Success            bool   `json:"success"`
	Message            string `json:"message"`
	Score              int    `json:"score,omitempty"`
	Offer              string `json:"offer,omitempty"`
	ProcessInstanceKey int64  `json:"processInstanceKey,omitempty"`
}

type errorResponse struct {
	Success bool                         `json:"success"`
	Message string                       `json:"message"`
	Fields  []string                     `json:"fields,omitempty"`
	Errors  []validation.ValidationError `json:"errors,omitempty"`
}

type promptsResponse struct {
	Prompts  []pitch.Prompt  `json:"prompts"`
	Missing  []string        `json:"missing"`
	Sections []sectionStatus `json:"sections"`
}

type sectionStatus struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Complete bool   `json:"complete"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	assessment, err := s.assess(req)
	if err != nil {
		s.writeAssessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	assessment, err := s.assess(req)
	if err != nil {
		s.writeAssessError(w, err)
		return
	}

	vars := models.StartVariables{
		FormData:         pitch.ToMap(assessment.Questionnaire),
		SelectedAddOnIDs: req.SelectedAddOnIDs,
		ClientContext:    clientContext(r),
		SubmittedAt:      s.now().UTC().Format(time.RFC3339),
	}
	if vars.SelectedAddOnIDs == nil {
		vars.SelectedAddOnIDs = []string{}
	}

	instance, err := s.starter.StartProcess(r.Context(), s.processID, vars)
	if err != nil {
		stdErr := errors.NewProcessStartFailedError(s.processID, err)
		s.logger.Error("Pitch submission error", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		writeJSON(w, http.StatusInternalServerError, errorResponse{Success: false, Message: msgSubmitFailed})
		return
	}

	s.logger.Info("pitch submitted", map[string]interface{}{
		"processInstanceKey": instance.ProcessInstanceKey,
		"scoreTotal":         assessment.Score.Total,
		"scoreBand":          assessment.Offer.Band.String(),
	})
	writeJSON(w, http.StatusOK, submitResponse{
		Success:            true,
		Message:            msgSubmitted,
		Score:              assessment.Score.Total,
		Offer:              assessment.Offer.Band.String(),
		ProcessInstanceKey: instance.ProcessInstanceKey,
	})
}

// handlePrompts takes a partial record as query parameters.
func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request) {
	b := pitch.NewBuilder()
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			// unknown names are ignored
			_ = b.Set(name, values[0])
		}
	}

	resp := promptsResponse{
		Prompts: pitch.Prompts(b.Draft()),
		Missing: b.Missing(),
	}
	for _, sec := range pitch.Sections() {
		resp.Sections = append(resp.Sections, sectionStatus{
			ID:       sec.ID,
			Title:    sec.Title,
			Complete: b.SectionComplete(sec.ID),
		})
	}
	if resp.Prompts == nil {
		resp.Prompts = []pitch.Prompt{}
	}
	if resp.Missing == nil {
		resp.Missing = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		s.logger.Warn("readiness check failed", map[string]interface{}{"failed": failed})
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"failed": failed,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*pitchRequest, bool) {
	var req pitchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := dec.Decode(&req); err != nil || req.FormData == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Success: false, Message: msgBadRequest})
		return nil, false
	}
	return &req, true
}

// assess applies the same checks as the validate-pitch-data worker, so a
// submission accepted here is not rejected at the start of the process.
func (s *Server) assess(req *pitchRequest) (pitch.Assessment, error) {
	q, err := validatepitchdata.ValidateForm(req.FormData)
	if err != nil {
		return pitch.Assessment{}, err
	}
	return s.engine.Assess(q, req.SelectedAddOnIDs)
}

func (s *Server) writeAssessError(w http.ResponseWriter, err error) {
	var formErr *validatepitchdata.FormError
	if stderrors.As(err, &formErr) {
		msg := msgInvalidFormat
		for _, p := range formErr.Problems {
			if p.Code == "REQUIRED_FIELD_MISSING" {
				msg = msgInvalid
				break
			}
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Success: false,
			Message: msg,
			Fields:  formErr.Fields(),
			Errors:  formErr.Problems,
		})
		return
	}
	var invalid *pitch.InvalidQuestionnaireError
	if stderrors.As(err, &invalid) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Success: false,
			Message: msgInvalid,
			Fields:  invalid.Fields(),
		})
		return
	}
	s.logger.Error("assessment failed", map[string]interface{}{"error": err.Error()})
	writeJSON(w, http.StatusInternalServerError, errorResponse{Success: false, Message: msgSubmitFailed})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
