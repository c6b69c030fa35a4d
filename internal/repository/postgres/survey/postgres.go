package survey

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	surveydomain "safety-survey-go/internal/domain/survey"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(surveydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, survey *surveydomain.Survey) error {
	err := r.db.WithContext(ctx).Create(survey).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return surveydomain.ErrAccessCodeTaken
	}
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint) (*surveydomain.Survey, error) {
	var survey surveydomain.Survey
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Creator").
		First(&survey, "surveys.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, surveydomain.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *PostgresRepository) GetByAccessCode(ctx context.Context, code string) (*surveydomain.Survey, error) {
	var survey surveydomain.Survey
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Creator").
		Where("access_code = ?", code).
		First(&survey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, surveydomain.ErrAccessCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]surveydomain.Survey, error) {
	var surveys []surveydomain.Survey
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Creator").
		Order("created_at asc").
		Find(&surveys).Error
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID uint) ([]surveydomain.Survey, error) {
	var surveys []surveydomain.Survey
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Creator").
		Where("project_id = ?", projectID).
		Order("created_at asc").
		Find(&surveys).Error
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&surveydomain.Survey{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *PostgresRepository) SetCompletion(ctx context.Context, id uint, completed bool, completedAt time.Time) error {
	tx := r.db.WithContext(ctx).Model(&surveydomain.Survey{})
	if err := tx.Where("id = ?", id).Update("is_completed", completed).Error; err != nil {
		return err
	}
	if !completed {
		return nil
	}
	// The NULL guard keeps the first completion timestamp under concurrent
	// updates.
	return r.db.WithContext(ctx).
		Model(&surveydomain.Survey{}).
		Where("id = ? AND completed_at IS NULL", id).
		Update("completed_at", completedAt).Error
}

func (r *PostgresRepository) SetParticipants(ctx context.Context, id uint, count int) error {
	return r.db.WithContext(ctx).
		Model(&surveydomain.Survey{}).
		Where("id = ?", id).
		Update("number_of_participants", count).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&surveydomain.Survey{}, "id = ?", id).Error
}

func (r *PostgresRepository) AddParticipant(ctx context.Context, accountID, surveyID uint) (bool, error) {
	link := surveydomain.AccountSurvey{AccountID: accountID, SurveyID: surveyID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) HasParticipant(ctx context.Context, accountID, surveyID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&surveydomain.AccountSurvey{}).
		Where("account_id = ? AND survey_id = ?", accountID, surveyID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListFilledByAccount(ctx context.Context, accountID uint) ([]surveydomain.FilledSurvey, error) {
	type linkRow struct {
		SurveyID uint      `gorm:"column:survey_id"`
		FilledAt time.Time `gorm:"column:filled_at"`
	}

	var links []linkRow
	err := r.db.WithContext(ctx).
		Table("account_surveys").
		Select("survey_id, filled_at").
		Where("account_id = ?", accountID).
		Order("filled_at desc").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []surveydomain.FilledSurvey{}, nil
	}

	ids := make([]uint, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.SurveyID)
	}

	var surveys []surveydomain.Survey
	err = r.db.WithContext(ctx).
		Preload("Project").
		Preload("Creator").
		Where("id IN ?", ids).
		Find(&surveys).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]surveydomain.Survey, len(surveys))
	for _, s := range surveys {
		byID[s.ID] = s
	}

	filled := make([]surveydomain.FilledSurvey, 0, len(links))
	for _, link := range links {
		s, ok := byID[link.SurveyID]
		if !ok {
			continue
		}
		filled = append(filled, surveydomain.FilledSurvey{Survey: s, FilledAt: link.FilledAt})
	}
	return filled, nil
}
