package service

import (
	"context"
	"fmt"

	"apevault/config"
	"apevault/internal/dto"
	"apevault/internal/model"
	"apevault/internal/repository"
	"apevault/pkg/logger"
	"apevault/pkg/utils"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// TelemetryService keeps the market-derived fields of active calls fresh:
// current price, market cap, PnL against the entry price, and the running
// maximum profit. It is the only writer of call telemetry; the feed read
// path stays read-only.
type TelemetryService interface {
	Start(ctx context.Context) error
	Stop()
	RefreshActiveCalls(ctx context.Context) error
}

type telemetryService struct {
	cfg            *config.Config
	log            *logger.Logger
	callsRepo      repository.CallRepository
	telemetryRepo  repository.CallTelemetryRepository
	marketDataRepo repository.MarketDataRepository
	cron           *cron.Cron
}

func NewTelemetryService(
	cfg *config.Config,
	log *logger.Logger,
	callsRepo repository.CallRepository,
	telemetryRepo repository.CallTelemetryRepository,
	marketDataRepo repository.MarketDataRepository,
) TelemetryService {
	return &telemetryService{
		cfg:            cfg,
		log:            log,
		callsRepo:      callsRepo,
		telemetryRepo:  telemetryRepo,
		marketDataRepo: marketDataRepo,
		cron:           cron.New(),
	}
}

func (s *telemetryService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Telemetry.Schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, s.cfg.Telemetry.TimeoutDuration)
		defer cancel()

		if err := s.RefreshActiveCalls(runCtx); err != nil {
			s.log.ErrorContext(runCtx, "Telemetry refresh failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid telemetry schedule %q: %w", s.cfg.Telemetry.Schedule, err)
	}

	s.log.Info("Starting telemetry scheduler",
		logger.StringField("schedule", s.cfg.Telemetry.Schedule),
		logger.IntField("max_concurrency", s.cfg.Telemetry.MaxConcurrency),
	)
	s.cron.Start()
	return nil
}

func (s *telemetryService) Stop() {
	s.log.Info("Stopping telemetry scheduler")
	<-s.cron.Stop().Done()
}

func (s *telemetryService) RefreshActiveCalls(ctx context.Context) error {
	calls, err := s.callsRepo.FetchCalls(ctx, dto.FilterCriteria{ActiveOnly: true})
	if err != nil {
		return fmt.Errorf("failed to list active calls: %w", err)
	}

	if len(calls) == 0 {
		s.log.DebugContext(ctx, "No active calls to refresh")
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Telemetry.MaxConcurrency)

	for _, call := range calls {
		if !utils.ShouldContinue(groupCtx, s.log) {
			break
		}

		call := call
		group.Go(func() error {
			if err := s.refreshCall(groupCtx, call); err != nil {
				// One bad ticker must not starve the rest of the batch.
				s.log.WarnContext(groupCtx, "Failed to refresh call telemetry",
					logger.ErrorField(err),
					logger.StringField("call_id", call.ID),
					logger.StringField("ticker", call.Ticker),
				)
			}
			return nil
		})
	}

	return group.Wait()
}

func (s *telemetryService) refreshCall(ctx context.Context, call model.Call) error {
	quote, err := s.marketDataRepo.GetQuote(ctx, call.Network, call.Ticker)
	if err != nil {
		return err
	}

	telemetry := model.CallTelemetry{
		CurrentPrice:     utils.ToPointer(quote.PriceUSD),
		CurrentMarketCap: utils.ToPointer(quote.MarketCapUSD),
	}

	if call.EntryPrice != nil && *call.EntryPrice > 0 {
		pnl := (quote.PriceUSD - *call.EntryPrice) / *call.EntryPrice * 100
		telemetry.CurrentPnL = utils.ToPointer(pnl)

		maxProfit := pnl
		if call.MaxProfit != nil && *call.MaxProfit > maxProfit {
			maxProfit = *call.MaxProfit
		}
		telemetry.MaxProfit = utils.ToPointer(maxProfit)
	}

	return s.telemetryRepo.UpdateTelemetry(ctx, call.ID, telemetry)
}
