package handler

import (
	"errors"
	"net/http"
	"time"

	projectdomain "safety-survey-go/internal/domain/project"
	surveydomain "safety-survey-go/internal/domain/survey"
)

type projectSurveySummary struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	AccessCode  string    `json:"access_code"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

type projectResponse struct {
	ID                               uint                   `json:"id"`
	ProjectID                        string                 `json:"project_id"`
	DataAreaID                       string                 `json:"data_area_id"`
	ProjectName                      string                 `json:"project_name"`
	DimensionDisplayValue            string                 `json:"dimension_display_value"`
	WorkerResponsiblePersonnelNumber string                 `json:"worker_responsible_personnel_number"`
	CustomerAccount                  string                 `json:"customer_account"`
	Surveys                          []projectSurveySummary `json:"surveys"`
}

func toProjectResponse(p projectdomain.Project, surveys []surveydomain.Survey) projectResponse {
	summaries := make([]projectSurveySummary, 0, len(surveys))
	for _, s := range surveys {
		summaries = append(summaries, projectSurveySummary{
			ID:          s.ID,
			Description: s.Description,
			AccessCode:  s.AccessCode,
			IsCompleted: s.IsCompleted,
			CreatedAt:   s.CreatedAt,
		})
	}
	return projectResponse{
		ID:                               p.ID,
		ProjectID:                        p.ProjectID,
		DataAreaID:                       p.DataAreaID,
		ProjectName:                      p.ProjectName,
		DimensionDisplayValue:            p.DimensionDisplayValue,
		WorkerResponsiblePersonnelNumber: p.WorkerResponsiblePersonnelNumber,
		CustomerAccount:                  p.CustomerAccount,
		Surveys:                          summaries,
	}
}

// ListProjects returns the project directory, optionally filtered with
// ?search= against name and external id.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Projects.ListProjects(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.log.InternalError("projects.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		surveys, err := h.Surveys.ListByProject(r.Context(), p.ID)
		if err != nil {
			h.log.InternalError("projects.list: list surveys failed", err, "project_id", p.ID)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		response = append(response, toProjectResponse(p, surveys))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	p, err := h.Projects.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, projectdomain.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		h.log.InternalError("projects.get failed", err, "project_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	surveys, err := h.Surveys.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.log.InternalError("projects.get: list surveys failed", err, "project_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(*p, surveys))
}
