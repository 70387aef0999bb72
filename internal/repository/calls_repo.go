package repository

import (
	"context"
	"fmt"
	"time"

	"apevault/internal/dto"
	"apevault/internal/model"
	"apevault/pkg/logger"

	"gorm.io/gorm"
)

// CallRepository is the read side of the feed. The returned slice satisfies
// every predicate the criteria set, ordered by creation time descending.
type CallRepository interface {
	FetchCalls(ctx context.Context, criteria dto.FilterCriteria) ([]model.Call, error)
}

// CallTelemetryRepository is the write side used by the telemetry refresher.
// The feed read path never mutates calls.
type CallTelemetryRepository interface {
	UpdateTelemetry(ctx context.Context, callID string, telemetry model.CallTelemetry) error
}

// callRow is the raw storage shape of a call. Fields the decode step
// defaults are nullable here.
type callRow struct {
	ID               string `gorm:"primaryKey"`
	AuthorID         string `gorm:"column:author_id;index"`
	Network          string
	Ticker           string
	Pair             string
	EntryPoint       string
	Target           string
	Strategy         *string
	Risks            string
	CancelConditions *string
	Comment          *string
	CreatedAt        *time.Time `gorm:"index"`
	Status           *string    `gorm:"index"`
	MaxProfit        *float64
	CurrentPnL       *float64 `gorm:"column:current_pnl"`
	CurrentMarketCap *float64
	SignalMarketCap  *float64
	CurrentPrice     *float64
	EntryPrice       *float64
}

func (callRow) TableName() string {
	return "calls"
}

// callDefaults is the single place storage gaps are papered over during
// decoding.
var callDefaults = struct {
	Status   model.CallStatus
	Strategy model.Strategy
}{
	Status:   model.CallStatusActive,
	Strategy: model.StrategyFlip,
}

// DecodeError reports a stored call that cannot be turned into a valid Call
// even after defaults.
type DecodeError struct {
	ID    string
	Field string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("call %q: missing required field %s", e.ID, e.Field)
}

// decodeCall maps a raw row to a Call, applying callDefaults and normalizing
// a missing creation time to now.
func decodeCall(row callRow, now time.Time) (model.Call, error) {
	if row.ID == "" {
		return model.Call{}, &DecodeError{Field: "id"}
	}

	call := model.Call{
		ID:               row.ID,
		AuthorID:         row.AuthorID,
		Network:          model.Network(row.Network),
		Ticker:           row.Ticker,
		Pair:             row.Pair,
		EntryPoint:       row.EntryPoint,
		Target:           row.Target,
		Strategy:         callDefaults.Strategy,
		Risks:            row.Risks,
		CreatedAt:        now,
		Status:           callDefaults.Status,
		MaxProfit:        row.MaxProfit,
		CurrentPnL:       row.CurrentPnL,
		CurrentMarketCap: row.CurrentMarketCap,
		SignalMarketCap:  row.SignalMarketCap,
		CurrentPrice:     row.CurrentPrice,
		EntryPrice:       row.EntryPrice,
	}

	if row.Strategy != nil && *row.Strategy != "" {
		call.Strategy = model.Strategy(*row.Strategy)
	}
	if row.Status != nil && *row.Status != "" {
		call.Status = model.CallStatus(*row.Status)
	}
	if row.CreatedAt != nil {
		call.CreatedAt = *row.CreatedAt
	}
	if row.CancelConditions != nil {
		call.CancelConditions = *row.CancelConditions
	}
	if row.Comment != nil {
		call.Comment = *row.Comment
	}

	return call, nil
}

// serverPredicate names the single secondary filter the remote query layers
// onto the base ordered query. The priority order mirrors the composite
// indexes the backing store carries.
type serverPredicate int

const (
	predicateNone serverPredicate = iota
	predicateAuthor
	predicateStatus
	predicateActiveWindow
)

func secondaryPredicate(criteria dto.FilterCriteria) serverPredicate {
	switch {
	case criteria.UserID != "":
		return predicateAuthor
	case criteria.Status != "":
		return predicateStatus
	case criteria.ActiveOnly:
		return predicateActiveWindow
	default:
		return predicateNone
	}
}

// applyResidualFilters enforces, in order-preserving fashion, every requested
// predicate the server-side query could not express: network and strategy
// always, status when the author predicate displaced it, and the active
// window whenever it lost the server-side slot.
func applyResidualFilters(calls []model.Call, criteria dto.FilterCriteria, applied serverPredicate, now time.Time) []model.Call {
	needStatus := criteria.Status != "" && applied != predicateStatus
	needActiveWindow := criteria.ActiveOnly && applied != predicateActiveWindow

	filtered := make([]model.Call, 0, len(calls))
	for _, call := range calls {
		if criteria.Network != "" && call.Network != criteria.Network {
			continue
		}
		if criteria.Strategy != "" && call.Strategy != criteria.Strategy {
			continue
		}
		if needStatus && call.Status != criteria.Status {
			continue
		}
		if needActiveWindow && !call.WithinActiveWindow(now) {
			continue
		}
		filtered = append(filtered, call)
	}
	return filtered
}

type callsRepository struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewCallsRepository(db *gorm.DB, log *logger.Logger) *callsRepository {
	return &callsRepository{
		db:  db,
		log: log,
		now: time.Now,
	}
}

func (r *callsRepository) FetchCalls(ctx context.Context, criteria dto.FilterCriteria) ([]model.Call, error) {
	now := r.now()

	query := r.db.WithContext(ctx).Model(&callRow{}).Order("created_at DESC")

	applied := secondaryPredicate(criteria)
	switch applied {
	case predicateAuthor:
		query = query.Where("author_id = ?", criteria.UserID)
	case predicateStatus:
		query = query.Where("status = ?", string(criteria.Status))
	case predicateActiveWindow:
		// A NULL creation time decodes to now, which is inside the window,
		// so the SQL keeps those rows too.
		query = query.Where("status = ? AND (created_at >= ? OR created_at IS NULL)", string(model.CallStatusActive), now.Add(-model.ActiveWindow))
	}

	var rows []callRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query calls: %w", err)
	}

	calls := make([]model.Call, 0, len(rows))
	for _, row := range rows {
		call, err := decodeCall(row, now)
		if err != nil {
			// A row without an id cannot render; skip it rather than
			// failing the whole feed.
			r.log.WarnContext(ctx, "Skipping undecodable call record", logger.ErrorField(err))
			continue
		}
		calls = append(calls, call)
	}

	return applyResidualFilters(calls, criteria, applied, now), nil
}

func (r *callsRepository) UpdateTelemetry(ctx context.Context, callID string, telemetry model.CallTelemetry) error {
	updates := map[string]interface{}{}
	if telemetry.CurrentPrice != nil {
		updates["current_price"] = *telemetry.CurrentPrice
	}
	if telemetry.CurrentMarketCap != nil {
		updates["current_market_cap"] = *telemetry.CurrentMarketCap
	}
	if telemetry.CurrentPnL != nil {
		updates["current_pnl"] = *telemetry.CurrentPnL
	}
	if telemetry.MaxProfit != nil {
		updates["max_profit"] = *telemetry.MaxProfit
	}
	if len(updates) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Model(&callRow{}).Where("id = ?", callID).Updates(updates).Error
}
