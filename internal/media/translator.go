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

	"github.com/google/uuid"

	"safety-survey-go/internal/config"
)

// Translator calls the text translation REST endpoint. Each request carries a
// fresh client trace id.
type Translator struct {
	key        string
	endpoint   string
	region     string
	client     *http.Client
	newTraceID func() string
}

func NewTranslator(cfg config.TranslatorConfig) *Translator {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Translator{
		key:      cfg.Key,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		region:   cfg.Region,
		client: &http.Client{
			Timeout: timeout,
		},
		newTraceID: func() string { return uuid.NewString() },
	}
}

type translationItem struct {
	Text string `json:"text"`
	To   string `json:"to"`
}

type translateResponseItem struct {
	Translations []translationItem `json:"translations"`
}

// Translate returns a map of target language to translated text.
func (t *Translator) Translate(ctx context.Context, from string, to []string, text string) (map[string]string, error) {
	query := url.Values{}
	query.Set("api-version", "3.0")
	query.Set("from", from)
	for _, language := range to {
		query.Add("to", language)
	}

	body, err := json.Marshal([]map[string]string{{"text": text}})
	if err != nil {
		return nil, fmt.Errorf("encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/translate?"+query.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %v", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", t.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ClientTraceId", t.newTraceID())

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RemoteError{Service: "translator", Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	var payload []translateResponseItem
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %v", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("translator returned no results")
	}

	translations := make(map[string]string, len(payload[0].Translations))
	for _, item := range payload[0].Translations {
		translations[item.To] = item.Text
	}
	return translations, nil
}
