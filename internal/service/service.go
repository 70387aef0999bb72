package service

import (
	"context"

	"apevault/config"
	"apevault/internal/repository"
	"apevault/pkg/localstore"
	"apevault/pkg/logger"
)

type Service struct {
	FeedService      FeedService
	AuthService      *AuthService
	ThemeService     *ThemeService
	TelemetryService TelemetryService
}

func NewService(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	localKV localstore.KV,
) (*Service, error) {
	authService, err := NewAuthService(ctx, log, repo.StudentsRepo, localKV)
	if err != nil {
		return nil, err
	}

	themeService, err := NewThemeService(ctx, log, localKV)
	if err != nil {
		return nil, err
	}

	return &Service{
		FeedService:      NewFeedService(log, repo.CallsRepo),
		AuthService:      authService,
		ThemeService:     themeService,
		TelemetryService: NewTelemetryService(cfg, log, repo.CallsRepo, repo.CallsTelemetry, repo.MarketDataRepo),
	}, nil
}
