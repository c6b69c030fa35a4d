package project

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProject(ctx context.Context, id uint) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListProjects(ctx context.Context, search string) ([]Project, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

func (s *Service) DeleteProject(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ImportResult summarizes one ERP import run.
type ImportResult struct {
	Seen    int
	Created int
	Updated int
	Skipped int
	Missing int
}

// ImportRow is one project record as delivered by the ERP feed.
type ImportRow struct {
	ProjectID                        string
	DataAreaID                       string
	ProjectName                      string
	DimensionDisplayValue            string
	WorkerResponsiblePersonnelNumber string
	CustomerAccount                  string
}

// Import upserts ERP rows keyed on the external project id. Only ids with
// exactly two hyphens (format x*-xx-xx) are imported; everything else is
// skipped. Projects present locally but absent from the feed are counted as
// missing, never deleted.
func (s *Service) Import(ctx context.Context, rows []ImportRow) (*ImportResult, error) {
	result := &ImportResult{Seen: len(rows)}
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		id := strings.TrimSpace(row.ProjectID)
		if id == "" || strings.Count(id, "-") != 2 {
			result.Skipped++
			continue
		}
		seen[id] = struct{}{}

		created, err := s.repo.Upsert(ctx, &Project{
			ProjectID:                        id,
			DataAreaID:                       row.DataAreaID,
			ProjectName:                      row.ProjectName,
			DimensionDisplayValue:            row.DimensionDisplayValue,
			WorkerResponsiblePersonnelNumber: row.WorkerResponsiblePersonnelNumber,
			CustomerAccount:                  row.CustomerAccount,
		})
		if err != nil {
			return nil, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	existing, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if _, ok := seen[p.ProjectID]; !ok {
			result.Missing++
		}
	}

	return result, nil
}
