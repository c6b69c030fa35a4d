package handler

import (
	"errors"
	"net/http"

	accountdomain "safety-survey-go/internal/domain/account"
	projectdomain "safety-survey-go/internal/domain/project"
	risknotedomain "safety-survey-go/internal/domain/risknote"
	surveydomain "safety-survey-go/internal/domain/survey"
	"safety-survey-go/internal/transport/httpserver/middleware"
)

type createSurveyRequest struct {
	Description          string   `json:"description"`
	Task                 []string `json:"task"`
	ScaffoldType         []string `json:"scaffold_type"`
	Language             string   `json:"language"`
	TranslationLanguages []string `json:"translation_languages"`
}

type updateSurveyRequest struct {
	Description          *string  `json:"description"`
	Task                 []string `json:"task"`
	ScaffoldType         []string `json:"scaffold_type"`
	IsCompleted          *bool    `json:"is_completed"`
	NumberOfParticipants *int     `json:"number_of_participants"`
	Language             *string  `json:"language"`
	TranslationLanguages []string `json:"translation_languages"`
}

// ListSurveys serves both the flat collection and the per-project one.
func (h *Handlers) ListSurveys(w http.ResponseWriter, r *http.Request) {
	var (
		surveys []surveydomain.Survey
		err     error
	)
	if projectID, paramErr := parseIDParam(r, "id"); paramErr == nil {
		surveys, err = h.Surveys.ListByProject(r.Context(), projectID)
	} else {
		surveys, err = h.Surveys.ListSurveys(r.Context())
	}
	if err != nil {
		h.log.InternalError("surveys.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	notesBySurvey, err := h.groupNotesBySurvey(r)
	if err != nil {
		h.log.InternalError("surveys.list: load risk notes failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]surveyResponse, 0, len(surveys))
	for i := range surveys {
		response = append(response, toSurveyResponse(&surveys[i], notesBySurvey[surveys[i].ID]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) groupNotesBySurvey(r *http.Request) (map[uint][]risknotedomain.RiskNote, error) {
	notes, err := h.RiskNotes.ListAll(r.Context())
	if err != nil {
		return nil, err
	}
	grouped := make(map[uint][]risknotedomain.RiskNote)
	for _, note := range notes {
		grouped[note.SurveyID] = append(grouped[note.SurveyID], note)
	}
	return grouped, nil
}

// CreateSurvey creates a survey under /projects/{id}/surveys/. The bare
// /surveys/ collection rejects creation because a survey cannot exist
// without a parent project.
func (h *Handlers) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var req createSurveyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	projectID, _ := parseIDParam(r, "id")

	created, err := h.Surveys.CreateSurvey(r.Context(), surveydomain.CreateInput{
		ProjectID:            projectID,
		Description:          req.Description,
		Task:                 req.Task,
		ScaffoldType:         req.ScaffoldType,
		Language:             req.Language,
		TranslationLanguages: req.TranslationLanguages,
		CreatorUserID:        claims.UserID,
	})
	if err != nil {
		h.writeSurveyError(w, err, "surveys.create")
		return
	}

	writeJSON(w, http.StatusCreated, toSurveyResponse(created, nil))
}

func (h *Handlers) GetSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	s, err := h.Surveys.GetSurvey(r.Context(), id)
	if err != nil {
		h.writeSurveyError(w, err, "surveys.get")
		return
	}

	notes, err := h.RiskNotes.ListBySurvey(r.Context(), s.ID)
	if err != nil {
		h.log.InternalError("surveys.get: load risk notes failed", err, "survey_id", s.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toSurveyResponse(s, notes))
}

// UpdateSurvey applies a partial update; PUT and PATCH behave the same, any
// field left out of the body keeps its value.
func (h *Handlers) UpdateSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	var req updateSurveyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	updated, err := h.Surveys.UpdateSurvey(r.Context(), id, surveydomain.UpdateInput{
		Description:          req.Description,
		Task:                 req.Task,
		ScaffoldType:         req.ScaffoldType,
		IsCompleted:          req.IsCompleted,
		NumberOfParticipants: req.NumberOfParticipants,
		Language:             req.Language,
		TranslationLanguages: req.TranslationLanguages,
	})
	if err != nil {
		h.writeSurveyError(w, err, "surveys.update")
		return
	}

	notes, err := h.RiskNotes.ListBySurvey(r.Context(), updated.ID)
	if err != nil {
		h.log.InternalError("surveys.update: load risk notes failed", err, "survey_id", updated.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toSurveyResponse(updated, notes))
}

func (h *Handlers) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	if err := h.Surveys.DeleteSurvey(r.Context(), id); err != nil {
		h.writeSurveyError(w, err, "surveys.delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSurveyByCode is the unauthenticated preview used before joining.
func (h *Handlers) GetSurveyByCode(w http.ResponseWriter, r *http.Request) {
	code := chiURLParam(r, "access_code")

	s, err := h.Surveys.FindByAccessCode(r.Context(), code)
	if err != nil {
		h.writeSurveyError(w, err, "surveys.by_code")
		return
	}

	notes, err := h.RiskNotes.ListBySurvey(r.Context(), s.ID)
	if err != nil {
		h.log.InternalError("surveys.by_code: load risk notes failed", err, "survey_id", s.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toSurveyResponse(s, notes))
}

// JoinSurvey links the token's account to the survey behind the code.
// Joining a survey twice answers 200 instead of 201 and writes nothing.
func (h *Handlers) JoinSurvey(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	outcome, err := h.Surveys.Join(r.Context(), claims.UserID, chiURLParam(r, "access_code"))
	if err != nil {
		h.writeSurveyError(w, err, "surveys.join")
		return
	}

	if outcome.AlreadyJoined {
		writeDetail(w, http.StatusOK, "You have already joined this survey")
		return
	}
	writeDetail(w, http.StatusCreated, "Successfully joined the survey")
}

// FilledSurveys returns every survey the token's account has joined, most
// recent join first. The access gate skips GET requests, so the token is
// checked here.
func (h *Handlers) FilledSurveys(w http.ResponseWriter, r *http.Request) {
	claims, err := h.gate.Authenticate(r)
	if err != nil {
		if errors.Is(err, middleware.ErrMissingHeader) {
			writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided")
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	filled, err := h.Surveys.ListFilled(r.Context(), claims.UserID)
	if err != nil {
		h.writeSurveyError(w, err, "surveys.filled")
		return
	}

	notesBySurvey, err := h.groupNotesBySurvey(r)
	if err != nil {
		h.log.InternalError("surveys.filled: load risk notes failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]filledSurveyResponse, 0, len(filled))
	for _, s := range filled {
		response = append(response, toFilledSurveyResponse(s, notesBySurvey[s.ID]))
	}
	writeJSON(w, http.StatusOK, map[string][]filledSurveyResponse{"filled_surveys": response})
}

// writeSurveyError maps domain errors from the survey flows onto the HTTP
// contract.
func (h *Handlers) writeSurveyError(w http.ResponseWriter, err error, operation string) {
	if ve, ok := surveydomain.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, surveydomain.ErrSurveyNotFound),
		errors.Is(err, surveydomain.ErrAccessCodeNotFound):
		writeError(w, http.StatusNotFound, "Survey not found")
	case errors.Is(err, accountdomain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, projectdomain.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "Project not found")
	default:
		h.log.InternalError(operation+" failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
