package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"gorm.io/datatypes"

	"safety-survey-go/internal/auth"
	"safety-survey-go/internal/config"
	accountdomain "safety-survey-go/internal/domain/account"
	projectdomain "safety-survey-go/internal/domain/project"
	risknotedomain "safety-survey-go/internal/domain/risknote"
	surveydomain "safety-survey-go/internal/domain/survey"
	"safety-survey-go/internal/media"
	"safety-survey-go/internal/transport/httpserver"
	"safety-survey-go/internal/transport/httpserver/handler"
	authmw "safety-survey-go/internal/transport/httpserver/middleware"
	"safety-survey-go/pkg/logger"
)

// ---- fakes ----

type fakeProjectRepo struct {
	mu       sync.Mutex
	nextID   uint
	projects map[uint]projectdomain.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{nextID: 1, projects: make(map[uint]projectdomain.Project)}
}

func (r *fakeProjectRepo) add(externalID, name string) projectdomain.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := projectdomain.Project{ID: r.nextID, ProjectID: externalID, ProjectName: name}
	r.projects[p.ID] = p
	r.nextID++
	return p
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id uint) (*projectdomain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, projectdomain.ErrProjectNotFound
	}
	return &p, nil
}

func (r *fakeProjectRepo) GetByProjectID(_ context.Context, externalID string) (*projectdomain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.ProjectID == externalID {
			return &p, nil
		}
	}
	return nil, projectdomain.ErrProjectNotFound
}

func (r *fakeProjectRepo) List(_ context.Context, _ string) ([]projectdomain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]projectdomain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeProjectRepo) Create(_ context.Context, p *projectdomain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	r.projects[p.ID] = *p
	return nil
}

func (r *fakeProjectRepo) Upsert(ctx context.Context, p *projectdomain.Project) (bool, error) {
	existing, err := r.GetByProjectID(ctx, p.ProjectID)
	if err == nil {
		p.ID = existing.ID
		r.mu.Lock()
		r.projects[p.ID] = *p
		r.mu.Unlock()
		return false, nil
	}
	return true, r.Create(ctx, p)
}

func (r *fakeProjectRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	nextID   uint
	accounts map[string]accountdomain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{nextID: 1, accounts: make(map[string]accountdomain.Account)}
}

func (r *fakeAccountRepo) Transaction(ctx context.Context, fn func(accountdomain.Repository) error) error {
	return fn(r)
}

func (r *fakeAccountRepo) GetByUserID(_ context.Context, userID string) (*accountdomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if !ok {
		return nil, accountdomain.ErrAccountNotFound
	}
	return &acc, nil
}

func (r *fakeAccountRepo) Get(_ context.Context, username, userID string) (*accountdomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if !ok || acc.Username != username {
		return nil, accountdomain.ErrAccountNotFound
	}
	return &acc, nil
}

func (r *fakeAccountRepo) List(_ context.Context) ([]accountdomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]accountdomain.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		result = append(result, acc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeAccountRepo) Create(_ context.Context, acc *accountdomain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc.ID = r.nextID
	acc.CreatedAt = time.Now()
	r.nextID++
	r.accounts[acc.UserID] = *acc
	return nil
}

type fakeSurveyRepo struct {
	mu           sync.Mutex
	nextID       uint
	surveys      map[uint]surveydomain.Survey
	codes        map[string]uint
	participants map[[2]uint]time.Time
	joinClock    time.Time

	projects *fakeProjectRepo
	accounts *fakeAccountRepo
}

func newFakeSurveyRepo(projects *fakeProjectRepo, accounts *fakeAccountRepo) *fakeSurveyRepo {
	return &fakeSurveyRepo{
		nextID:       1,
		surveys:      make(map[uint]surveydomain.Survey),
		codes:        make(map[string]uint),
		participants: make(map[[2]uint]time.Time),
		joinClock:    time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		projects:     projects,
		accounts:     accounts,
	}
}

func (r *fakeSurveyRepo) Transaction(ctx context.Context, fn func(surveydomain.Repository) error) error {
	return fn(r)
}

func (r *fakeSurveyRepo) Create(_ context.Context, s *surveydomain.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.codes[s.AccessCode]; taken {
		return surveydomain.ErrAccessCodeTaken
	}
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	r.nextID++
	r.codes[s.AccessCode] = s.ID
	r.surveys[s.ID] = *s
	return nil
}

// hydrate fills the project and creator references the way the real store
// preloads them.
func (r *fakeSurveyRepo) hydrate(s surveydomain.Survey) surveydomain.Survey {
	if p, err := r.projects.GetByID(context.Background(), s.ProjectID); err == nil {
		s.Project = *p
	}
	if s.CreatorID != nil {
		r.accounts.mu.Lock()
		for _, acc := range r.accounts.accounts {
			if acc.ID == *s.CreatorID {
				copied := acc
				s.Creator = &copied
				break
			}
		}
		r.accounts.mu.Unlock()
	}
	return s
}

func (r *fakeSurveyRepo) GetByID(_ context.Context, id uint) (*surveydomain.Survey, error) {
	r.mu.Lock()
	s, ok := r.surveys[id]
	r.mu.Unlock()
	if !ok {
		return nil, surveydomain.ErrSurveyNotFound
	}
	s = r.hydrate(s)
	return &s, nil
}

func (r *fakeSurveyRepo) GetByAccessCode(_ context.Context, code string) (*surveydomain.Survey, error) {
	r.mu.Lock()
	id, ok := r.codes[code]
	r.mu.Unlock()
	if !ok {
		return nil, surveydomain.ErrAccessCodeNotFound
	}
	return r.GetByID(context.Background(), id)
}

func (r *fakeSurveyRepo) List(_ context.Context) ([]surveydomain.Survey, error) {
	r.mu.Lock()
	ids := make([]uint, 0, len(r.surveys))
	for id := range r.surveys {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]surveydomain.Survey, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetByID(context.Background(), id)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, nil
}

func (r *fakeSurveyRepo) ListByProject(ctx context.Context, projectID uint) ([]surveydomain.Survey, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]surveydomain.Survey, 0, len(all))
	for _, s := range all {
		if s.ProjectID == projectID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *fakeSurveyRepo) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[id]
	if !ok {
		return surveydomain.ErrSurveyNotFound
	}
	for key, value := range fields {
		switch key {
		case "description":
			s.Description = value.(string)
		case "language":
			s.Language = value.(string)
		case "task":
			s.Task = value.(datatypes.JSONSlice[string])
		case "scaffold_type":
			s.ScaffoldType = value.(datatypes.JSONSlice[string])
		case "translation_languages":
			s.TranslationLanguages = value.(datatypes.JSONSlice[string])
		}
	}
	r.surveys[id] = s
	return nil
}

func (r *fakeSurveyRepo) SetCompletion(_ context.Context, id uint, completed bool, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[id]
	if !ok {
		return surveydomain.ErrSurveyNotFound
	}
	s.IsCompleted = completed
	if completed && s.CompletedAt == nil {
		stamp := completedAt
		s.CompletedAt = &stamp
	}
	r.surveys[id] = s
	return nil
}

func (r *fakeSurveyRepo) SetParticipants(_ context.Context, id uint, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[id]
	if !ok {
		return surveydomain.ErrSurveyNotFound
	}
	s.NumberOfParticipants = count
	r.surveys[id] = s
	return nil
}

func (r *fakeSurveyRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[id]
	if !ok {
		return surveydomain.ErrSurveyNotFound
	}
	delete(r.codes, s.AccessCode)
	delete(r.surveys, id)
	return nil
}

func (r *fakeSurveyRepo) AddParticipant(_ context.Context, accountID, surveyID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uint{accountID, surveyID}
	if _, ok := r.participants[key]; ok {
		return false, nil
	}
	r.joinClock = r.joinClock.Add(time.Minute)
	r.participants[key] = r.joinClock
	return true, nil
}

func (r *fakeSurveyRepo) HasParticipant(_ context.Context, accountID, surveyID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.participants[[2]uint{accountID, surveyID}]
	return ok, nil
}

func (r *fakeSurveyRepo) ListFilledByAccount(_ context.Context, accountID uint) ([]surveydomain.FilledSurvey, error) {
	r.mu.Lock()
	type entry struct {
		surveyID uint
		filledAt time.Time
	}
	entries := make([]entry, 0)
	for key, filledAt := range r.participants {
		if key[0] == accountID {
			entries = append(entries, entry{surveyID: key[1], filledAt: filledAt})
		}
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].filledAt.After(entries[j].filledAt) })

	result := make([]surveydomain.FilledSurvey, 0, len(entries))
	for _, e := range entries {
		s, err := r.GetByID(context.Background(), e.surveyID)
		if err != nil {
			continue
		}
		result = append(result, surveydomain.FilledSurvey{Survey: *s, FilledAt: e.filledAt})
	}
	return result, nil
}

type fakeRiskNoteRepo struct {
	mu     sync.Mutex
	nextID uint
	notes  []risknotedomain.RiskNote
}

func newFakeRiskNoteRepo() *fakeRiskNoteRepo {
	return &fakeRiskNoteRepo{nextID: 1}
}

func (r *fakeRiskNoteRepo) Transaction(ctx context.Context, fn func(risknotedomain.Repository) error) error {
	return fn(r)
}

func (r *fakeRiskNoteRepo) Create(_ context.Context, note *risknotedomain.RiskNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note.ID = r.nextID
	note.CreatedAt = time.Now()
	r.nextID++
	stored := *note
	stored.Survey = surveydomain.Survey{}
	r.notes = append(r.notes, stored)
	return nil
}

func (r *fakeRiskNoteRepo) GetByID(_ context.Context, id uint) (*risknotedomain.RiskNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, note := range r.notes {
		if note.ID == id {
			copied := note
			return &copied, nil
		}
	}
	return nil, risknotedomain.ErrRiskNoteNotFound
}

func (r *fakeRiskNoteRepo) List(_ context.Context) ([]risknotedomain.RiskNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]risknotedomain.RiskNote(nil), r.notes...), nil
}

func (r *fakeRiskNoteRepo) ListBySurvey(_ context.Context, surveyID uint) ([]risknotedomain.RiskNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]risknotedomain.RiskNote, 0)
	for _, note := range r.notes {
		if note.SurveyID == surveyID {
			result = append(result, note)
		}
	}
	return result, nil
}

func (r *fakeRiskNoteRepo) Update(_ context.Context, note *risknotedomain.RiskNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notes {
		if r.notes[i].ID == note.ID {
			stored := *note
			stored.Survey = surveydomain.Survey{}
			r.notes[i] = stored
			return nil
		}
	}
	return risknotedomain.ErrRiskNoteNotFound
}

func (r *fakeRiskNoteRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notes {
		if r.notes[i].ID == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return risknotedomain.ErrRiskNoteNotFound
}

type fakeImageStore struct {
	blobs map[string][]byte
}

func (f *fakeImageStore) Upload(_ context.Context, files []media.File) ([]string, error) {
	if len(files) == 0 {
		return nil, media.ErrNoFiles
	}
	urls := make([]string, 0, len(files))
	for _, file := range files {
		switch {
		case validImageName(file.Name):
			blobName := "images/fixed-uuid_" + file.Name
			f.blobs[blobName] = file.Content
			urls = append(urls, "https://blobs.example.com/media/"+blobName)
		default:
			return nil, &media.InvalidFileError{Name: file.Name}
		}
	}
	return urls, nil
}

func validImageName(name string) bool {
	for _, suffix := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}

func (f *fakeImageStore) Download(_ context.Context, blobName string) ([]byte, string, error) {
	data, ok := f.blobs[blobName]
	if !ok {
		return nil, "", media.ErrBlobNotFound
	}
	return data, media.ContentTypeFor(blobName), nil
}

type fakeAudioService struct {
	result media.TranscriptionResult
	err    error
}

func (f *fakeAudioService) TranscribeAudio(_ context.Context, _ []byte, _, _, _ string, _ []string) (media.TranscriptionResult, error) {
	return f.result, f.err
}

type fakeTranslatorService struct {
	translations map[string]string
	err          error
}

func (f *fakeTranslatorService) Translate(_ context.Context, _ string, _ []string, _ string) (map[string]string, error) {
	return f.translations, f.err
}

// ---- environment ----

type testEnv struct {
	router   http.Handler
	codec    *auth.Codec
	projects *fakeProjectRepo
	accounts *fakeAccountRepo
	surveys  *fakeSurveyRepo
	notes    *fakeRiskNoteRepo
	images   *fakeImageStore
	audio    *fakeAudioService
	texts    *fakeTranslatorService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	projectRepo := newFakeProjectRepo()
	accountRepo := newFakeAccountRepo()
	surveyRepo := newFakeSurveyRepo(projectRepo, accountRepo)
	noteRepo := newFakeRiskNoteRepo()

	projects := projectdomain.NewService(projectRepo)
	accounts := accountdomain.NewService(accountRepo)
	surveys := surveydomain.NewService(surveyRepo, projects, accounts)
	riskNotes := risknotedomain.NewService(noteRepo, surveys)

	images := &fakeImageStore{blobs: make(map[string][]byte)}
	audio := &fakeAudioService{result: media.TranscriptionResult{
		Message:       "Audio file 'clip.wav' successfully transcribed and translated.",
		Transcription: "Kaide puuttuu.",
		Translations:  map[string]string{"en": "Railing is missing."},
	}}
	texts := &fakeTranslatorService{translations: map[string]string{"en": "scaffold"}}

	codec := auth.NewCodec("handler-test-secret", 0)
	gate := authmw.NewAccessGate(codec, "/api/signin/")
	log := logger.New(io.Discard, slog.LevelError, "text")

	handlers := handler.New(projects, accounts, surveys, riskNotes, images, audio, texts, codec, gate, log)
	router := httpserver.NewRouter(config.Config{HTTPPort: "0"}, handlers, gate, log)

	return &testEnv{
		router:   router,
		codec:    codec,
		projects: projectRepo,
		accounts: accountRepo,
		surveys:  surveyRepo,
		notes:    noteRepo,
		images:   images,
		audio:    audio,
		texts:    texts,
	}
}

// signIn registers an account directly and returns its bearer token.
func (env *testEnv) signIn(t *testing.T, username, userID string) string {
	t.Helper()
	acc := accountdomain.Account{UserID: userID, Username: username}
	if err := env.accounts.Create(context.Background(), &acc); err != nil {
		t.Fatalf("create account: %v", err)
	}
	token, err := env.codec.Issue(username, userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (env *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}
