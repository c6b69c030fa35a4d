package project

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	projectdomain "safety-survey-go/internal/domain/project"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint) (*projectdomain.Project, error) {
	var project projectdomain.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectdomain.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *PostgresRepository) GetByProjectID(ctx context.Context, projectID string) (*projectdomain.Project, error) {
	var project projectdomain.Project
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectdomain.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *PostgresRepository) List(ctx context.Context, search string) ([]projectdomain.Project, error) {
	query := r.db.WithContext(ctx).Order("project_name asc")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("project_name ILIKE ? OR project_id ILIKE ?", pattern, pattern)
	}

	var projects []projectdomain.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *PostgresRepository) Create(ctx context.Context, project *projectdomain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Upsert writes the row keyed on the external project id, updating the
// synchronized columns when it already exists.
func (r *PostgresRepository) Upsert(ctx context.Context, project *projectdomain.Project) (bool, error) {
	existing, err := r.GetByProjectID(ctx, project.ProjectID)
	if err != nil && !errors.Is(err, projectdomain.ErrProjectNotFound) {
		return false, err
	}
	if err == nil {
		project.ID = existing.ID
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"data_area_id",
				"project_name",
				"dimension_display_value",
				"worker_responsible_personnel_number",
				"customer_account",
				"updated_at",
			}),
		}).
		Create(project)
	if result.Error != nil {
		return false, result.Error
	}
	return existing == nil, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&projectdomain.Project{}, "id = ?", id).Error
}
