package project

import "context"

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Project, error)
	GetByProjectID(ctx context.Context, projectID string) (*Project, error)
	List(ctx context.Context, search string) ([]Project, error)
	Create(ctx context.Context, project *Project) error
	Upsert(ctx context.Context, project *Project) (created bool, err error)
	Delete(ctx context.Context, id uint) error
}
