package survey

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// Create persists a new survey and returns ErrAccessCodeTaken when the
	// access-code unique index rejects the insert.
	Create(ctx context.Context, survey *Survey) error
	GetByID(ctx context.Context, id uint) (*Survey, error)
	GetByAccessCode(ctx context.Context, code string) (*Survey, error)
	List(ctx context.Context) ([]Survey, error)
	ListByProject(ctx context.Context, projectID uint) ([]Survey, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error

	// SetCompletion flips is_completed. On completion it stamps completed_at
	// only when the column is still NULL, so repeated or concurrent
	// completions keep the first timestamp.
	SetCompletion(ctx context.Context, id uint, completed bool, completedAt time.Time) error
	SetParticipants(ctx context.Context, id uint, count int) error
	Delete(ctx context.Context, id uint) error

	// AddParticipant inserts the (account, survey) association with
	// insert-or-ignore semantics and reports whether a row was written.
	AddParticipant(ctx context.Context, accountID, surveyID uint) (created bool, err error)
	HasParticipant(ctx context.Context, accountID, surveyID uint) (bool, error)
	ListFilledByAccount(ctx context.Context, accountID uint) ([]FilledSurvey, error)
}
