package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"safety-survey-go/internal/config"
	"safety-survey-go/internal/db"
	projectdomain "safety-survey-go/internal/domain/project"
	"safety-survey-go/internal/erp"
	projectrepo "safety-survey-go/internal/repository/postgres/project"
	"safety-survey-go/pkg/logger"
)

func main() {
	sandbox := flag.Bool("sandbox", false, "use the sandbox ERP environment")
	flag.Parse()

	log := logger.NewFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(log)
	if err != nil {
		log.Critical("import: load config failed", "err", err)
		os.Exit(1)
	}

	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		log.Critical("import: connect database failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		if sqlDB, err := dbConn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := db.Migrate(dbConn); err != nil {
		log.Critical("import: apply migrations failed", "err", err)
		os.Exit(1)
	}

	projects := projectdomain.NewService(projectrepo.NewPostgres(dbConn))
	importer := erp.NewImporter(erp.NewClient(cfg.ERP), projects, log)

	if _, err := importer.Run(ctx, *sandbox); err != nil {
		log.Critical("import: run failed", "err", err)
		os.Exit(1)
	}
}
