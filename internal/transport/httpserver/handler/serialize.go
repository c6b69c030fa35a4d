package handler

import (
	"time"

	accountdomain "safety-survey-go/internal/domain/account"
	risknotedomain "safety-survey-go/internal/domain/risknote"
	surveydomain "safety-survey-go/internal/domain/survey"
)

type creatorResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type riskNoteResponse struct {
	ID           uint                   `json:"id"`
	SurveyID     uint                   `json:"survey_id"`
	Note         string                 `json:"note"`
	Description  string                 `json:"description"`
	Status       string                 `json:"status"`
	RiskType     string                 `json:"risk_type"`
	Language     string                 `json:"language"`
	Images       []string               `json:"images"`
	Translations map[string]interface{} `json:"translations"`
	CreatedAt    time.Time              `json:"created_at"`
}

type surveyResponse struct {
	ID                      uint                   `json:"id"`
	ProjectID               string                 `json:"project_id"`
	ProjectName             string                 `json:"project_name"`
	Creator                 *creatorResponse       `json:"creator"`
	Description             string                 `json:"description"`
	DescriptionTranslations map[string]interface{} `json:"description_translations"`
	Task                    []string               `json:"task"`
	ScaffoldType            []string               `json:"scaffold_type"`
	AccessCode              string                 `json:"access_code"`
	IsCompleted             bool                   `json:"is_completed"`
	CompletedAt             *time.Time             `json:"completed_at"`
	NumberOfParticipants    int                    `json:"number_of_participants"`
	Language                string                 `json:"language"`
	TranslationLanguages    []string               `json:"translation_languages"`
	CreatedAt               time.Time              `json:"created_at"`
	RiskNotes               []riskNoteResponse     `json:"risk_notes"`
}

type filledSurveyResponse struct {
	ID           uint               `json:"id"`
	ProjectID    string             `json:"project_id"`
	ProjectName  string             `json:"project_name"`
	Description  string             `json:"description"`
	Task         []string           `json:"task"`
	ScaffoldType []string           `json:"scaffold_type"`
	CreatedAt    time.Time          `json:"created_at"`
	RiskNotes    []riskNoteResponse `json:"risk_notes"`
}

type accountResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func toRiskNoteResponse(note risknotedomain.RiskNote) riskNoteResponse {
	return riskNoteResponse{
		ID:           note.ID,
		SurveyID:     note.SurveyID,
		Note:         note.Note,
		Description:  note.Description,
		Status:       note.Status,
		RiskType:     note.RiskType,
		Language:     note.Language,
		Images:       nonNil([]string(note.Images)),
		Translations: map[string]interface{}(note.Translations),
		CreatedAt:    note.CreatedAt,
	}
}

func toRiskNoteResponses(notes []risknotedomain.RiskNote) []riskNoteResponse {
	result := make([]riskNoteResponse, 0, len(notes))
	for _, note := range notes {
		result = append(result, toRiskNoteResponse(note))
	}
	return result
}

func toSurveyResponse(s *surveydomain.Survey, notes []risknotedomain.RiskNote) surveyResponse {
	response := surveyResponse{
		ID:                      s.ID,
		ProjectID:               s.Project.ProjectID,
		ProjectName:             s.Project.ProjectName,
		Creator:                 toCreatorResponse(s.Creator),
		Description:             s.Description,
		DescriptionTranslations: map[string]interface{}(s.DescriptionTranslations),
		Task:                    nonNil([]string(s.Task)),
		ScaffoldType:            nonNil([]string(s.ScaffoldType)),
		AccessCode:              s.AccessCode,
		IsCompleted:             s.IsCompleted,
		CompletedAt:             s.CompletedAt,
		NumberOfParticipants:    s.NumberOfParticipants,
		Language:                s.Language,
		TranslationLanguages:    nonNil([]string(s.TranslationLanguages)),
		CreatedAt:               s.CreatedAt,
		RiskNotes:               toRiskNoteResponses(notes),
	}
	return response
}

func toFilledSurveyResponse(s surveydomain.FilledSurvey, notes []risknotedomain.RiskNote) filledSurveyResponse {
	return filledSurveyResponse{
		ID:           s.ID,
		ProjectID:    s.Project.ProjectID,
		ProjectName:  s.Project.ProjectName,
		Description:  s.Description,
		Task:         nonNil([]string(s.Task)),
		ScaffoldType: nonNil([]string(s.ScaffoldType)),
		CreatedAt:    s.CreatedAt,
		RiskNotes:    toRiskNoteResponses(notes),
	}
}

func toCreatorResponse(creator *accountdomain.Account) *creatorResponse {
	if creator == nil {
		return nil
	}
	return &creatorResponse{ID: creator.ID, Username: creator.Username}
}

func toAccountResponse(acc accountdomain.Account) accountResponse {
	return accountResponse{ID: acc.ID, Username: acc.Username, CreatedAt: acc.CreatedAt}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
