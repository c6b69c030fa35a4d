package risknote

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	risknotedomain "safety-survey-go/internal/domain/risknote"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(risknotedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, note *risknotedomain.RiskNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint) (*risknotedomain.RiskNote, error) {
	var note risknotedomain.RiskNote
	if err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, risknotedomain.ErrRiskNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]risknotedomain.RiskNote, error) {
	var notes []risknotedomain.RiskNote
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *PostgresRepository) ListBySurvey(ctx context.Context, surveyID uint) ([]risknotedomain.RiskNote, error) {
	var notes []risknotedomain.RiskNote
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("created_at asc, id asc").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *PostgresRepository) Update(ctx context.Context, note *risknotedomain.RiskNote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(note).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&risknotedomain.RiskNote{}, "id = ?", id).Error
}
