package risknote

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, note *RiskNote) error
	GetByID(ctx context.Context, id uint) (*RiskNote, error)
	List(ctx context.Context) ([]RiskNote, error)
	ListBySurvey(ctx context.Context, surveyID uint) ([]RiskNote, error)
	Update(ctx context.Context, note *RiskNote) error
	Delete(ctx context.Context, id uint) error
}
