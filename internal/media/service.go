package media

import (
	"context"
	"fmt"
	"strings"
)

// Transcriber recognizes speech from raw audio.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType, language string) (string, error)
}

// TextTranslator translates text into a set of target languages.
type TextTranslator interface {
	Translate(ctx context.Context, from string, to []string, text string) (map[string]string, error)
}

type TranscriptionResult struct {
	Message       string
	Transcription string
	Translations  map[string]string
}

// Service chains speech recognition with text translation for the
// transcription endpoint.
type Service struct {
	speech     Transcriber
	translator TextTranslator
}

func NewService(speech Transcriber, translator TextTranslator) *Service {
	return &Service{speech: speech, translator: translator}
}

// TranscribeAudio recognizes the clip and, when target languages are given,
// translates the transcription into each of them.
func (s *Service) TranscribeAudio(ctx context.Context, audio []byte, contentType, fileName, recordingLanguage string, targetLanguages []string) (TranscriptionResult, error) {
	transcription, err := s.speech.Transcribe(ctx, audio, contentType, recordingLanguage)
	if err != nil {
		return TranscriptionResult{}, fmt.Errorf("transcribe audio: %w", err)
	}

	message := fmt.Sprintf("Audio file '%s' successfully transcribed.", fileName)
	translations := map[string]string{}
	if len(targetLanguages) > 0 {
		// The recognition language is a locale tag, the translator wants
		// the bare language code.
		from, _, _ := strings.Cut(recordingLanguage, "-")
		translations, err = s.translator.Translate(ctx, from, targetLanguages, transcription)
		if err != nil {
			return TranscriptionResult{}, fmt.Errorf("%w: %w", ErrTranslationFailed, err)
		}
		message = fmt.Sprintf("Audio file '%s' successfully transcribed and translated.", fileName)
	}

	return TranscriptionResult{
		Message:       message,
		Transcription: transcription,
		Translations:  translations,
	}, nil
}
