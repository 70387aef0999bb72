package service

import (
	"context"

	"apevault/internal/dto"
	"apevault/pkg/localstore"
	"apevault/pkg/logger"
)

// ThemeStateKey is the durable storage key for the theme store.
const ThemeStateKey = "apevault-students-theme"

// ThemeService owns the light/dark flag. Both mutations are total: they
// never fail from the caller's point of view, persistence errors are only
// logged.
type ThemeService struct {
	log   *logger.Logger
	state *localstore.Store[dto.ThemeState]
}

func NewThemeService(ctx context.Context, log *logger.Logger, kv localstore.KV) (*ThemeService, error) {
	state, err := localstore.New(ctx, kv, ThemeStateKey, dto.ThemeState{Theme: dto.ThemeLight})
	if err != nil {
		return nil, err
	}

	return &ThemeService{
		log:   log,
		state: state,
	}, nil
}

func (s *ThemeService) Theme() dto.Theme {
	return s.state.Get().Theme
}

// ToggleTheme flips between light and dark, persists the result, and
// notifies subscribers (the page-edge consumers applying the visual flag).
func (s *ThemeService) ToggleTheme(ctx context.Context) dto.Theme {
	next := dto.ThemeLight
	if s.state.Get().Theme == dto.ThemeLight {
		next = dto.ThemeDark
	}
	s.SetTheme(ctx, next)
	return next
}

func (s *ThemeService) SetTheme(ctx context.Context, theme dto.Theme) {
	if err := s.state.Set(ctx, dto.ThemeState{Theme: theme}); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist theme", logger.ErrorField(err))
	}
}

// Subscribe notifies fn on every theme change.
func (s *ThemeService) Subscribe(fn func(dto.ThemeState)) func() {
	return s.state.Subscribe(fn)
}
