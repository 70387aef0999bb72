package repository

import (
	"apevault/config"
	"apevault/pkg/cache"
	"apevault/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	CallsRepo      CallRepository
	CallsTelemetry CallTelemetryRepository
	StudentsRepo   StudentRepository
	MarketDataRepo MarketDataRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) *Repository {
	calls := NewCallsRepository(db, log)

	return &Repository{
		CallsRepo:      calls,
		CallsTelemetry: calls,
		StudentsRepo:   NewStudentRepository(db),
		MarketDataRepo: NewMarketDataRepository(cfg, inmemoryCache, log),
	}
}
