package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"safety-survey-go/internal/config"
)

// Speech transcribes short audio clips through the region speech-to-text
// REST endpoint.
type Speech struct {
	key     string
	baseURL string
	client  *http.Client
}

func NewSpeech(cfg config.SpeechConfig) *Speech {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Speech{
		key:     cfg.Key,
		baseURL: fmt.Sprintf("https://%s.stt.speech.microsoft.com", cfg.Region),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type recognitionResponse struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
	NBest             []struct {
		Display string `json:"Display"`
	} `json:"NBest"`
}

// displayText returns the recognized text. The detailed format carries it in
// NBest ranked by confidence; DisplayText only appears in the simple format.
func (r recognitionResponse) displayText() string {
	if len(r.NBest) > 0 && r.NBest[0].Display != "" {
		return r.NBest[0].Display
	}
	return r.DisplayText
}

// Transcribe sends the audio bytes for recognition in the given language and
// returns the display text. A recognition status other than Success is an
// error carrying the upstream status as detail.
func (s *Speech) Transcribe(ctx context.Context, audio []byte, contentType, language string) (string, error) {
	query := url.Values{}
	query.Set("language", language)
	query.Set("format", "detailed")

	endpoint := s.baseURL + "/speech/recognition/conversation/cognitiveservices/v1?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build request: %v", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &RemoteError{Service: "speech", Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	var payload recognitionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %v", err)
	}

	if payload.RecognitionStatus != "Success" {
		return "", &RemoteError{Service: "speech", Status: resp.StatusCode, Detail: "recognition failed: " + payload.RecognitionStatus}
	}
	text := payload.displayText()
	if text == "" {
		return "", &RemoteError{Service: "speech", Status: resp.StatusCode, Detail: "no speech could be recognized"}
	}

	return text, nil
}
