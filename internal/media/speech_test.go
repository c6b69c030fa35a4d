package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"safety-survey-go/internal/config"
)

func newTestSpeech(baseURL string) *Speech {
	speech := NewSpeech(config.SpeechConfig{
		Key:     "speech-key",
		Region:  "northeurope",
		Timeout: 2 * time.Second,
	})
	speech.baseURL = baseURL
	return speech
}

func TestTranscribeReadsDetailedFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "speech-key" {
			t.Errorf("subscription key header = %q", got)
		}
		if got := r.URL.Query().Get("language"); got != "fi-FI" {
			t.Errorf("language = %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "detailed" {
			t.Errorf("format = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "audio-bytes" {
			t.Errorf("body = %q", body)
		}

		// The detailed format puts the text in NBest ranked by confidence;
		// there is no top-level DisplayText.
		_, _ = io.WriteString(w, `{
			"RecognitionStatus": "Success",
			"NBest": [
				{"Confidence": 0.93, "Display": "Telineellä on puute."},
				{"Confidence": 0.41, "Display": "Telineillä on puute."}
			]
		}`)
	}))
	defer server.Close()

	speech := newTestSpeech(server.URL)
	text, err := speech.Transcribe(context.Background(), []byte("audio-bytes"), "audio/wav", "fi-FI")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "Telineellä on puute." {
		t.Fatalf("text = %q", text)
	}
}

func TestTranscribeFallsBackToSimpleFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"RecognitionStatus": "Success", "DisplayText": "Kaide puuttuu."}`)
	}))
	defer server.Close()

	speech := newTestSpeech(server.URL)
	text, err := speech.Transcribe(context.Background(), []byte("x"), "audio/wav", "fi-FI")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "Kaide puuttuu." {
		t.Fatalf("text = %q", text)
	}
}

func TestTranscribeNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(recognitionResponse{RecognitionStatus: "NoMatch"})
	}))
	defer server.Close()

	speech := newTestSpeech(server.URL)
	_, err := speech.Transcribe(context.Background(), []byte("x"), "audio/wav", "fi-FI")

	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
}

func TestTranscribeUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	speech := newTestSpeech(server.URL)
	_, err := speech.Transcribe(context.Background(), []byte("x"), "audio/wav", "fi-FI")

	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remoteErr.Status != http.StatusForbidden {
		t.Errorf("status = %d", remoteErr.Status)
	}
}
