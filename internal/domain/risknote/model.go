package risknote

import (
	"time"

	"gorm.io/datatypes"

	"safety-survey-go/internal/domain/survey"
)

// RiskNote is a single observation recorded against a survey.
type RiskNote struct {
	ID           uint                        `gorm:"primaryKey"`
	SurveyID     uint                        `gorm:"not null;index"`
	Survey       survey.Survey               `gorm:"foreignKey:SurveyID;references:ID;constraint:OnDelete:CASCADE"`
	Note         string                      `gorm:"not null"`
	Description  string                      ``
	Status       string                      ``
	RiskType     string                      ``
	Language     string                      `gorm:"size:10"`
	Images       datatypes.JSONSlice[string] ``
	Translations datatypes.JSONMap           ``
	CreatedAt    time.Time                   `gorm:"autoCreateTime"`
}

func (RiskNote) TableName() string { return "risk_notes" }
