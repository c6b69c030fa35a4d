package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	risknotedomain "safety-survey-go/internal/domain/risknote"
	surveydomain "safety-survey-go/internal/domain/survey"
)

type riskNoteRequest struct {
	Note         string                 `json:"note"`
	Description  string                 `json:"description"`
	Status       string                 `json:"status"`
	RiskType     string                 `json:"risk_type"`
	Language     string                 `json:"language"`
	Images       []string               `json:"images"`
	Translations map[string]interface{} `json:"translations"`
}

type updateRiskNoteRequest struct {
	Note         *string                `json:"note"`
	Description  *string                `json:"description"`
	Status       *string                `json:"status"`
	RiskType     *string                `json:"risk_type"`
	Language     *string                `json:"language"`
	Images       []string               `json:"images"`
	Translations map[string]interface{} `json:"translations"`
}

func (req riskNoteRequest) toCreateInput() risknotedomain.CreateInput {
	return risknotedomain.CreateInput{
		Note:         req.Note,
		Description:  req.Description,
		Status:       req.Status,
		RiskType:     req.RiskType,
		Language:     req.Language,
		Images:       req.Images,
		Translations: req.Translations,
	}
}

// CreateRiskNotes accepts either a single note object or an array of them
// and echoes back what was created in the same shape.
func (h *Handlers) CreateRiskNotes(w http.ResponseWriter, r *http.Request) {
	surveyID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	batch := isJSONArray(body)
	var inputs []riskNoteRequest
	if batch {
		if err := json.Unmarshal(body, &inputs); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
	} else {
		var single riskNoteRequest
		if err := json.Unmarshal(body, &single); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		inputs = []riskNoteRequest{single}
	}

	createInputs := make([]risknotedomain.CreateInput, 0, len(inputs))
	for _, input := range inputs {
		createInputs = append(createInputs, input.toCreateInput())
	}

	notes, err := h.RiskNotes.CreateBatch(r.Context(), surveyID, createInputs)
	if err != nil {
		h.writeRiskNoteError(w, err, "risk_notes.create")
		return
	}

	if batch {
		writeJSON(w, http.StatusCreated, toRiskNoteResponses(notes))
		return
	}
	writeJSON(w, http.StatusCreated, toRiskNoteResponse(notes[0]))
}

func (h *Handlers) ListRiskNotesBySurvey(w http.ResponseWriter, r *http.Request) {
	surveyID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	notes, err := h.RiskNotes.ListBySurvey(r.Context(), surveyID)
	if err != nil {
		h.writeRiskNoteError(w, err, "risk_notes.list_by_survey")
		return
	}
	writeJSON(w, http.StatusOK, toRiskNoteResponses(notes))
}

func (h *Handlers) ListRiskNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.RiskNotes.ListAll(r.Context())
	if err != nil {
		h.log.InternalError("risk_notes.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toRiskNoteResponses(notes))
}

func (h *Handlers) UpdateRiskNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid risk note id")
		return
	}

	var req updateRiskNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	note, err := h.RiskNotes.Update(r.Context(), id, risknotedomain.UpdateInput{
		Note:         req.Note,
		Description:  req.Description,
		Status:       req.Status,
		RiskType:     req.RiskType,
		Language:     req.Language,
		Images:       req.Images,
		Translations: req.Translations,
	})
	if err != nil {
		h.writeRiskNoteError(w, err, "risk_notes.update")
		return
	}
	writeJSON(w, http.StatusOK, toRiskNoteResponse(*note))
}

func (h *Handlers) writeRiskNoteError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, risknotedomain.ErrNoteMissing):
		writeJSON(w, http.StatusBadRequest, map[string]string{"note": "Note field cannot be empty."})
	case errors.Is(err, risknotedomain.ErrRiskNoteNotFound):
		writeError(w, http.StatusNotFound, "Risk note not found")
	case errors.Is(err, surveydomain.ErrSurveyNotFound):
		writeError(w, http.StatusNotFound, "Survey not found")
	default:
		h.log.InternalError(operation+" failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
