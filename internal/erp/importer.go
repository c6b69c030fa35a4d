package erp

import (
	"context"
	"fmt"

	"safety-survey-go/internal/domain/project"
	"safety-survey-go/pkg/logger"
)

// ProjectFetcher is the slice of Client the importer needs.
type ProjectFetcher interface {
	Resource(sandbox bool) string
	FetchProjects(ctx context.Context, resource string) ([]ProjectRow, error)
}

// ProjectImporter applies a batch of ERP rows to the local project store.
type ProjectImporter interface {
	Import(ctx context.Context, rows []project.ImportRow) (*project.ImportResult, error)
}

// Importer runs one ERP-to-database project sync.
type Importer struct {
	client   ProjectFetcher
	projects ProjectImporter
	log      logger.Logger
}

func NewImporter(client ProjectFetcher, projects ProjectImporter, log logger.Logger) *Importer {
	return &Importer{client: client, projects: projects, log: log}
}

func (i *Importer) Run(ctx context.Context, sandbox bool) (*project.ImportResult, error) {
	environment := "production"
	if sandbox {
		environment = "sandbox"
	}
	resource := i.client.Resource(sandbox)
	i.log.Info("importing projects", "environment", environment, "resource", resource)

	rows, err := i.client.FetchProjects(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	i.log.Info("fetched projects", "count", len(rows))

	importRows := make([]project.ImportRow, 0, len(rows))
	for _, row := range rows {
		importRows = append(importRows, project.ImportRow{
			ProjectID:                        row.ProjectID,
			DataAreaID:                       row.DataAreaID,
			ProjectName:                      row.ProjectName,
			DimensionDisplayValue:            row.DimensionDisplayValue,
			WorkerResponsiblePersonnelNumber: row.WorkerResponsiblePersonnelNumber,
			CustomerAccount:                  row.CustomerAccount,
		})
	}

	result, err := i.projects.Import(ctx, importRows)
	if err != nil {
		return nil, fmt.Errorf("import projects: %w", err)
	}

	i.log.Info("projects updated",
		"seen", result.Seen,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"missing", result.Missing,
	)
	return result, nil
}
