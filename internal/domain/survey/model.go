package survey

import (
	"time"

	"gorm.io/datatypes"

	"safety-survey-go/internal/domain/account"
	"safety-survey-go/internal/domain/project"
)

// Survey is one inspection tied to a project. The access code is assigned at
// creation, globally unique, and never changes afterwards.
type Survey struct {
	ID                      uint                         `gorm:"primaryKey"`
	ProjectID               uint                         `gorm:"not null;index"`
	Project                 project.Project              `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	CreatorID               *uint                        `gorm:"index"`
	Creator                 *account.Account             `gorm:"foreignKey:CreatorID;references:ID;constraint:OnDelete:SET NULL"`
	Description             string                       `gorm:"size:250"`
	DescriptionTranslations datatypes.JSONMap            ``
	Task                    datatypes.JSONSlice[string]  `gorm:"not null"`
	ScaffoldType            datatypes.JSONSlice[string]  `gorm:"not null"`
	AccessCode              string                       `gorm:"size:6;not null;uniqueIndex"`
	IsCompleted             bool                         `gorm:"not null;default:false"`
	CompletedAt             *time.Time                   ``
	NumberOfParticipants    int                          `gorm:"not null;default:0"`
	Language                string                       `gorm:"size:10"`
	TranslationLanguages    datatypes.JSONSlice[string]  ``
	CreatedAt               time.Time                    `gorm:"autoCreateTime"`
}

func (Survey) TableName() string { return "surveys" }

// AccountSurvey links an account to a survey it has joined. The composite
// primary key is what makes joining idempotent at the storage layer.
type AccountSurvey struct {
	AccountID uint      `gorm:"primaryKey"`
	SurveyID  uint      `gorm:"primaryKey"`
	FilledAt  time.Time `gorm:"autoCreateTime;index"`

	Account account.Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
	Survey  Survey          `gorm:"foreignKey:SurveyID;references:ID;constraint:OnDelete:CASCADE"`
}

func (AccountSurvey) TableName() string { return "account_surveys" }

// FilledSurvey is a survey annotated with the join time for the account
// that filled it.
type FilledSurvey struct {
	Survey
	FilledAt time.Time
}
