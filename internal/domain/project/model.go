package project

import "time"

// Project mirrors a row in the external financial system. Rows are written
// by the ERP import job; the application itself treats them as read-only.
type Project struct {
	ID                               uint      `gorm:"primaryKey" json:"id"`
	ProjectID                        string    `gorm:"size:100;not null;uniqueIndex" json:"project_id"`
	DataAreaID                       string    `gorm:"size:100" json:"data_area_id"`
	ProjectName                      string    `gorm:"size:255;not null" json:"project_name"`
	DimensionDisplayValue            string    `gorm:"size:255" json:"dimension_display_value"`
	WorkerResponsiblePersonnelNumber string    `gorm:"size:100" json:"worker_responsible_personnel_number"`
	CustomerAccount                  string    `gorm:"size:100" json:"customer_account"`
	CreatedAt                        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
