package survey

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"gorm.io/datatypes"

	"safety-survey-go/internal/domain/account"
	"safety-survey-go/internal/domain/project"
)

const (
	accessCodeLength = 6
	// Alphabet is A-Z and 1-9 with O removed; 0 and O read the same on a
	// shared jobsite whiteboard.
	accessCodeAlphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"
	// 34^6 codes make collisions vanishingly rare; the cap only guards
	// against a misbehaving store.
	accessCodeAttempts = 100

	msgTaskEmpty     = "Task field cannot be empty."
	msgScaffoldEmpty = "Scaffold type field cannot be empty."
	msgProjectNeeded = "A project is required to create a survey."
)

type ProjectGetter interface {
	GetProject(ctx context.Context, id uint) (*project.Project, error)
}

type AccountGetter interface {
	GetByUserID(ctx context.Context, userID string) (*account.Account, error)
}

type Service struct {
	repo     Repository
	projects ProjectGetter
	accounts AccountGetter
	now      func() time.Time
}

func NewService(repo Repository, projects ProjectGetter, accounts AccountGetter) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		accounts: accounts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateInput struct {
	ProjectID            uint
	Description          string
	Task                 []string
	ScaffoldType         []string
	Language             string
	TranslationLanguages []string
	CreatorUserID        string
}

// CreateSurvey validates the input, assigns a unique access code and links
// the creator's account to the new survey in the same transaction.
func (s *Service) CreateSurvey(ctx context.Context, input CreateInput) (*Survey, error) {
	fields := make(map[string]string)
	if input.ProjectID == 0 {
		fields["project"] = msgProjectNeeded
	}
	if len(input.Task) == 0 {
		fields["task"] = msgTaskEmpty
	}
	if len(input.ScaffoldType) == 0 {
		fields["scaffold_type"] = msgScaffoldEmpty
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	proj, err := s.projects.GetProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	creator, err := s.accounts.GetByUserID(ctx, input.CreatorUserID)
	if err != nil {
		return nil, err
	}

	created, err := s.createWithFreshCode(ctx, proj.ID, creator.ID, input)
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, created.ID)
}

// createWithFreshCode draws codes until an insert clears the unique index.
// The index is the backstop: a collision between concurrent creations
// surfaces as ErrAccessCodeTaken and triggers a fresh draw, never a
// duplicate code. Each attempt runs in its own transaction; postgres aborts
// a transaction after a failed statement, so a retry inside the same one
// could never succeed.
func (s *Service) createWithFreshCode(ctx context.Context, projectID, creatorID uint, input CreateInput) (*Survey, error) {
	for i := 0; i < accessCodeAttempts; i++ {
		code, err := generateAccessCode()
		if err != nil {
			return nil, err
		}

		created := Survey{
			ProjectID:            projectID,
			CreatorID:            &creatorID,
			Description:          input.Description,
			Task:                 input.Task,
			ScaffoldType:         input.ScaffoldType,
			Language:             input.Language,
			TranslationLanguages: input.TranslationLanguages,
			AccessCode:           code,
		}

		err = s.repo.Transaction(ctx, func(tx Repository) error {
			if err := tx.Create(ctx, &created); err != nil {
				return err
			}
			_, err := tx.AddParticipant(ctx, creatorID, created.ID)
			return err
		})
		if err == nil {
			return &created, nil
		}
		if errors.Is(err, ErrAccessCodeTaken) {
			continue
		}
		return nil, err
	}
	return nil, ErrCodeGenerationFailed
}

type UpdateInput struct {
	Description          *string
	Task                 []string
	ScaffoldType         []string
	IsCompleted          *bool
	NumberOfParticipants *int
	Language             *string
	TranslationLanguages []string
}

// UpdateSurvey applies a partial update. Completion is one-directional:
// the first transition to completed stamps completed_at, later ones leave
// it untouched.
func (s *Service) UpdateSurvey(ctx context.Context, id uint, input UpdateInput) (*Survey, error) {
	fields := make(map[string]string)
	if input.Task != nil && len(input.Task) == 0 {
		fields["task"] = msgTaskEmpty
	}
	if input.ScaffoldType != nil && len(input.ScaffoldType) == 0 {
		fields["scaffold_type"] = msgScaffoldEmpty
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetByID(ctx, id); err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Task != nil {
			updates["task"] = datatypes.NewJSONSlice(input.Task)
		}
		if input.ScaffoldType != nil {
			updates["scaffold_type"] = datatypes.NewJSONSlice(input.ScaffoldType)
		}
		if input.TranslationLanguages != nil {
			updates["translation_languages"] = datatypes.NewJSONSlice(input.TranslationLanguages)
		}
		if input.Language != nil {
			updates["language"] = *input.Language
		}
		if len(updates) > 0 {
			if err := tx.UpdateFields(ctx, id, updates); err != nil {
				return err
			}
		}

		if input.IsCompleted != nil {
			if err := tx.SetCompletion(ctx, id, *input.IsCompleted, s.now()); err != nil {
				return err
			}
		}
		if input.NumberOfParticipants != nil {
			if err := tx.SetParticipants(ctx, id, *input.NumberOfParticipants); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

type JoinOutcome struct {
	Survey        *Survey
	AlreadyJoined bool
}

// Join associates the token's account with the survey behind the access
// code. Joining twice is not an error and writes no second row.
func (s *Service) Join(ctx context.Context, userID, code string) (*JoinOutcome, error) {
	acc, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.GetByAccessCode(ctx, code)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.AddParticipant(ctx, acc.ID, found.ID)
	if err != nil {
		return nil, err
	}

	return &JoinOutcome{Survey: found, AlreadyJoined: !created}, nil
}

// ListFilled returns the surveys the account has joined, most recent join
// first.
func (s *Service) ListFilled(ctx context.Context, userID string) ([]FilledSurvey, error) {
	acc, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListFilledByAccount(ctx, acc.ID)
}

func (s *Service) GetSurvey(ctx context.Context, id uint) (*Survey, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByAccessCode is the unauthenticated preview lookup; the match is
// exact and case-sensitive.
func (s *Service) FindByAccessCode(ctx context.Context, code string) (*Survey, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrAccessCodeNotFound
	}
	return s.repo.GetByAccessCode(ctx, code)
}

func (s *Service) ListSurveys(ctx context.Context) ([]Survey, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByProject(ctx context.Context, projectID uint) ([]Survey, error) {
	return s.repo.ListByProject(ctx, projectID)
}

func (s *Service) DeleteSurvey(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func generateAccessCode() (string, error) {
	max := big.NewInt(int64(len(accessCodeAlphabet)))

	var builder strings.Builder
	builder.Grow(accessCodeLength)

	for i := 0; i < accessCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(accessCodeAlphabet[n.Int64()])
	}

	return builder.String(), nil
}
