package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"safety-survey-go/internal/media"
)

// maxUploadBytes caps multipart request memory for audio and image uploads.
const maxUploadBytes = 32 << 20

type translateRequest struct {
	From string   `json:"from"`
	To   []string `json:"to"`
	Text string   `json:"text"`
}

type transcribeResponse struct {
	Message       string            `json:"message"`
	Transcription string            `json:"transcription"`
	Translations  map[string]string `json:"translations"`
}

// Transcribe accepts a multipart audio clip with a recording language and an
// optional JSON array of translation targets.
func (h *Handlers) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}

	recordingLanguage := r.FormValue("recordingLanguage")
	targetLanguages := parseLanguageList(r.FormValue("translationLanguages"))

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/wav"
	}

	result, err := h.Audio.TranscribeAudio(r.Context(), audio, contentType, header.Filename, recordingLanguage, targetLanguages)
	if err != nil {
		h.log.InternalError("transcribe failed", err, "file", header.Filename)
		if errors.Is(err, media.ErrTranslationFailed) {
			writeError(w, http.StatusInternalServerError, "Failed to translate the audio")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to transcribe the audio")
		return
	}

	writeJSON(w, http.StatusCreated, transcribeResponse{
		Message:       result.Message,
		Transcription: result.Transcription,
		Translations:  result.Translations,
	})
}

// parseLanguageList decodes the JSON-encoded language array posted alongside
// the audio file. Anything unparsable means no translation targets.
func parseLanguageList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	var languages []string
	if err := json.Unmarshal([]byte(value), &languages); err != nil {
		return nil
	}
	return languages
}

// Translate proxies a text translation request.
func (h *Handlers) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, `Invalid or missing "text" parameter`)
		return
	}
	if len(req.To) == 0 {
		writeError(w, http.StatusBadRequest, `Invalid or missing "to" parameter`)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, `Invalid or missing "text" parameter`)
		return
	}

	from := req.From
	if from == "" {
		from = "fi"
	}

	translations, err := h.Translator.Translate(r.Context(), from, req.To, req.Text)
	if err != nil {
		h.log.InternalError("translate failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to translate the text")
		return
	}
	writeJSON(w, http.StatusOK, translations)
}

type uploadResponse struct {
	Status string   `json:"status"`
	URLs   []string `json:"urls"`
}

type uploadError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UploadImages stores every file in the multipart request and returns their
// public URLs. One invalid file rejects the whole batch.
func (h *Handlers) UploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil || r.MultipartForm == nil {
		writeJSON(w, http.StatusBadRequest, uploadError{Status: "error", Message: "No image files provided."})
		return
	}

	var files []media.File
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			content, err := readMultipartFile(header)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, uploadError{Status: "error", Message: "No image files provided."})
				return
			}
			files = append(files, media.File{Name: header.Filename, Content: content})
		}
	}

	urls, err := h.Images.Upload(r.Context(), files)
	if err != nil {
		var invalidErr *media.InvalidFileError
		switch {
		case errors.Is(err, media.ErrNoFiles):
			writeJSON(w, http.StatusBadRequest, uploadError{Status: "error", Message: "No image files provided."})
		case errors.As(err, &invalidErr):
			writeJSON(w, http.StatusBadRequest, uploadError{
				Status:  "error",
				Message: "Invalid file type for " + invalidErr.Name + ". Only images are allowed.",
			})
		default:
			h.log.InternalError("upload images failed", err)
			writeJSON(w, http.StatusInternalServerError, uploadError{Status: "error", Message: "Image upload failed."})
		}
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Status: "success", URLs: urls})
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// RetrieveImage streams a stored blob back with a content type derived from
// its name.
func (h *Handlers) RetrieveImage(w http.ResponseWriter, r *http.Request) {
	blobName := strings.TrimSpace(r.URL.Query().Get("blob_name"))
	if blobName == "" {
		writeJSON(w, http.StatusBadRequest, uploadError{Status: "error", Message: "No blob name provided."})
		return
	}

	data, contentType, err := h.Images.Download(r.Context(), blobName)
	if err != nil {
		if errors.Is(err, media.ErrBlobNotFound) {
			writeJSON(w, http.StatusNotFound, uploadError{Status: "error", Message: "Image not found."})
			return
		}
		h.log.InternalError("retrieve image failed", err, "blob_name", blobName)
		writeJSON(w, http.StatusInternalServerError, uploadError{Status: "error", Message: "Image retrieval failed."})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
