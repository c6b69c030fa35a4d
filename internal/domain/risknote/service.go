package risknote

import (
	"context"
	"strings"

	"gorm.io/datatypes"

	"safety-survey-go/internal/domain/survey"
)

type SurveyGetter interface {
	GetSurvey(ctx context.Context, id uint) (*survey.Survey, error)
}

type Service struct {
	repo    Repository
	surveys SurveyGetter
}

func NewService(repo Repository, surveys SurveyGetter) *Service {
	return &Service{repo: repo, surveys: surveys}
}

type CreateInput struct {
	Note         string
	Description  string
	Status       string
	RiskType     string
	Language     string
	Images       []string
	Translations map[string]interface{}
}

// CreateBatch validates every entry before writing anything, then inserts
// the whole batch in one transaction. A single create is a batch of one.
func (s *Service) CreateBatch(ctx context.Context, surveyID uint, inputs []CreateInput) ([]RiskNote, error) {
	target, err := s.surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	for _, input := range inputs {
		if strings.TrimSpace(input.Note) == "" {
			return nil, ErrNoteMissing
		}
	}

	notes := make([]RiskNote, 0, len(inputs))
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for _, input := range inputs {
			note := RiskNote{
				SurveyID:     target.ID,
				Note:         input.Note,
				Description:  input.Description,
				Status:       input.Status,
				RiskType:     input.RiskType,
				Language:     input.Language,
				Images:       datatypes.NewJSONSlice(input.Images),
				Translations: datatypes.JSONMap(input.Translations),
			}
			if err := tx.Create(ctx, &note); err != nil {
				return err
			}
			notes = append(notes, note)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (s *Service) Create(ctx context.Context, surveyID uint, input CreateInput) (*RiskNote, error) {
	notes, err := s.CreateBatch(ctx, surveyID, []CreateInput{input})
	if err != nil {
		return nil, err
	}
	return &notes[0], nil
}

// ListBySurvey returns the survey's notes in creation order.
func (s *Service) ListBySurvey(ctx context.Context, surveyID uint) ([]RiskNote, error) {
	if _, err := s.surveys.GetSurvey(ctx, surveyID); err != nil {
		return nil, err
	}
	return s.repo.ListBySurvey(ctx, surveyID)
}

func (s *Service) ListAll(ctx context.Context) ([]RiskNote, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	Note         *string
	Description  *string
	Status       *string
	RiskType     *string
	Language     *string
	Images       []string
	Translations map[string]interface{}
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*RiskNote, error) {
	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Note != nil {
		if strings.TrimSpace(*input.Note) == "" {
			return nil, ErrNoteMissing
		}
		note.Note = *input.Note
	}
	if input.Description != nil {
		note.Description = *input.Description
	}
	if input.Status != nil {
		note.Status = *input.Status
	}
	if input.RiskType != nil {
		note.RiskType = *input.RiskType
	}
	if input.Language != nil {
		note.Language = *input.Language
	}
	if input.Images != nil {
		note.Images = datatypes.NewJSONSlice(input.Images)
	}
	if input.Translations != nil {
		note.Translations = datatypes.JSONMap(input.Translations)
	}

	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
