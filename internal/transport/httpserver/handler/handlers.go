package handler

import (
	"context"
	"net/http"

	"safety-survey-go/internal/auth"
	accountdomain "safety-survey-go/internal/domain/account"
	projectdomain "safety-survey-go/internal/domain/project"
	risknotedomain "safety-survey-go/internal/domain/risknote"
	surveydomain "safety-survey-go/internal/domain/survey"
	"safety-survey-go/internal/media"
	"safety-survey-go/pkg/logger"
)

// TokenIssuer signs identity tokens handed out at sign-in.
type TokenIssuer interface {
	Issue(username, userID string) (string, error)
}

// Authenticator verifies the bearer token on a request. GET endpoints that
// need an identity use it directly since the access gate only covers
// mutating methods.
type Authenticator interface {
	Authenticate(r *http.Request) (*auth.Claims, error)
}

// ImageStore is the blob storage surface the image endpoints use.
type ImageStore interface {
	Upload(ctx context.Context, files []media.File) ([]string, error)
	Download(ctx context.Context, blobName string) ([]byte, string, error)
}

// AudioTranscriber runs speech recognition plus optional translation.
type AudioTranscriber interface {
	TranscribeAudio(ctx context.Context, audio []byte, contentType, fileName, recordingLanguage string, targetLanguages []string) (media.TranscriptionResult, error)
}

// TextTranslator translates text into a set of target languages.
type TextTranslator interface {
	Translate(ctx context.Context, from string, to []string, text string) (map[string]string, error)
}

type Handlers struct {
	Projects   *projectdomain.Service
	Accounts   *accountdomain.Service
	Surveys    *surveydomain.Service
	RiskNotes  *risknotedomain.Service
	Images     ImageStore
	Audio      AudioTranscriber
	Translator TextTranslator

	tokens TokenIssuer
	gate   Authenticator
	log    logger.Logger
}

func New(
	projects *projectdomain.Service,
	accounts *accountdomain.Service,
	surveys *surveydomain.Service,
	riskNotes *risknotedomain.Service,
	images ImageStore,
	audio AudioTranscriber,
	translator TextTranslator,
	tokens TokenIssuer,
	gate Authenticator,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Projects:   projects,
		Accounts:   accounts,
		Surveys:    surveys,
		RiskNotes:  riskNotes,
		Images:     images,
		Audio:      audio,
		Translator: translator,
		tokens:     tokens,
		gate:       gate,
		log:        log,
	}
}

// Index lists the entry points of the API.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"projects_url": "/api/projects/",
		"surveys_url":  "/api/surveys/",
	})
}
