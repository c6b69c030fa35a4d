package app

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"safety-survey-go/internal/auth"
	"safety-survey-go/internal/config"
	"safety-survey-go/internal/db"
	accountdomain "safety-survey-go/internal/domain/account"
	projectdomain "safety-survey-go/internal/domain/project"
	risknotedomain "safety-survey-go/internal/domain/risknote"
	surveydomain "safety-survey-go/internal/domain/survey"
	"safety-survey-go/internal/media"
	accountrepo "safety-survey-go/internal/repository/postgres/account"
	projectrepo "safety-survey-go/internal/repository/postgres/project"
	risknoterepo "safety-survey-go/internal/repository/postgres/risknote"
	surveyrepo "safety-survey-go/internal/repository/postgres/survey"
	"safety-survey-go/internal/transport/httpserver"
	"safety-survey-go/internal/transport/httpserver/handler"
	authmw "safety-survey-go/internal/transport/httpserver/middleware"
	"safety-survey-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	projects := projectdomain.NewService(projectrepo.NewPostgres(dbConn))
	accounts := accountdomain.NewService(accountrepo.NewPostgres(dbConn))
	surveys := surveydomain.NewService(surveyrepo.NewPostgres(dbConn), projects, accounts)
	riskNotes := risknotedomain.NewService(risknoterepo.NewPostgres(dbConn), surveys)

	log.Info("app: initializing media clients")
	storage, err := media.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	translator := media.NewTranslator(cfg.Translator)
	audio := media.NewService(media.NewSpeech(cfg.Speech), translator)

	codec := auth.NewCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	gate := authmw.NewAccessGate(codec, "/api/signin/")

	handlers := handler.New(projects, accounts, surveys, riskNotes, storage, audio, translator, codec, gate, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, gate, log)

	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
