package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/planfab/portal/pkg/erp/erpdb"
	"github.com/planfab/portal/pkg/infrastructure/config"
	"github.com/planfab/portal/pkg/infrastructure/migrations"
	"github.com/planfab/portal/pkg/interfaces/rest"
	"github.com/planfab/portal/pkg/planning"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.IsDev() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := erpdb.Open(cfg.MirrorDBPath)
	if err != nil {
		logger.Fatal("open erp mirror", zap.Error(err))
	}
	defer db.Close()

	if cfg.IsDev() {
		if err := migrations.Up(db.DB); err != nil {
			logger.Fatal("migrate erp mirror", zap.Error(err))
		}
	}

	planner := planning.NewPlanner(erpdb.NewStore(db), logger, planning.Config{
		PackagingPrefix:    cfg.PackagingPrefix,
		ForecastBufferDays: cfg.ForecastBufferDays,
	})
	server := rest.NewServer(planner, logger)

	logger.Info("portal listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, server.Routes()); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}
