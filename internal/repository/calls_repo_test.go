package repository

import (
	"testing"
	"time"

	"apevault/internal/dto"
	"apevault/internal/model"
	"apevault/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCall(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	createdAt := now.Add(-2 * time.Hour)

	tests := []struct {
		name    string
		row     callRow
		want    model.Call
		wantErr bool
	}{
		{
			name: "fully populated row",
			row: callRow{
				ID:        "call-1",
				AuthorID:  "author-1",
				Network:   "solana",
				Ticker:    "BONK",
				Strategy:  utils.ToPointer("long"),
				Status:    utils.ToPointer("closed"),
				CreatedAt: &createdAt,
				Comment:   utils.ToPointer("watch volume"),
			},
			want: model.Call{
				ID:        "call-1",
				AuthorID:  "author-1",
				Network:   model.NetworkSolana,
				Ticker:    "BONK",
				Strategy:  model.StrategyLong,
				Status:    model.CallStatusClosed,
				CreatedAt: createdAt,
				Comment:   "watch volume",
			},
		},
		{
			name: "missing status strategy and created_at get defaults",
			row: callRow{
				ID:       "call-2",
				AuthorID: "author-1",
				Network:  "ethereum",
			},
			want: model.Call{
				ID:        "call-2",
				AuthorID:  "author-1",
				Network:   model.NetworkEthereum,
				Strategy:  model.StrategyFlip,
				Status:    model.CallStatusActive,
				CreatedAt: now,
			},
		},
		{
			name: "empty strategy string gets default",
			row: callRow{
				ID:        "call-3",
				Strategy:  utils.ToPointer(""),
				Status:    utils.ToPointer("active"),
				CreatedAt: &createdAt,
			},
			want: model.Call{
				ID:        "call-3",
				Strategy:  model.StrategyFlip,
				Status:    model.CallStatusActive,
				CreatedAt: createdAt,
			},
		},
		{
			name:    "missing id is rejected",
			row:     callRow{AuthorID: "author-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCall(tt.row, now)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecondaryPredicate(t *testing.T) {
	tests := []struct {
		name     string
		criteria dto.FilterCriteria
		want     serverPredicate
	}{
		{
			name:     "no criteria",
			criteria: dto.FilterCriteria{},
			want:     predicateNone,
		},
		{
			name:     "author wins over everything",
			criteria: dto.FilterCriteria{UserID: "u1", Status: model.CallStatusClosed, ActiveOnly: true},
			want:     predicateAuthor,
		},
		{
			name:     "status wins over active only",
			criteria: dto.FilterCriteria{Status: model.CallStatusClosed, ActiveOnly: true},
			want:     predicateStatus,
		},
		{
			name:     "active only alone",
			criteria: dto.FilterCriteria{ActiveOnly: true},
			want:     predicateActiveWindow,
		},
		{
			name:     "network and strategy never take the server slot",
			criteria: dto.FilterCriteria{Network: model.NetworkSolana, Strategy: model.StrategyLong},
			want:     predicateNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, secondaryPredicate(tt.criteria))
		})
	}
}

func TestApplyResidualFilters(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	freshActive := model.Call{
		ID: "a", Network: model.NetworkSolana, Strategy: model.StrategyFlip,
		Status: model.CallStatusActive, CreatedAt: now.Add(-1 * time.Hour),
	}
	staleActive := model.Call{
		ID: "b", Network: model.NetworkSolana, Strategy: model.StrategyFlip,
		Status: model.CallStatusActive, CreatedAt: now.Add(-30 * time.Hour),
	}
	freshClosed := model.Call{
		ID: "c", Network: model.NetworkSolana, Strategy: model.StrategyLong,
		Status: model.CallStatusClosed, CreatedAt: now.Add(-1 * time.Hour),
	}
	freshActiveBSC := model.Call{
		ID: "d", Network: model.NetworkBSC, Strategy: model.StrategyFlip,
		Status: model.CallStatusActive, CreatedAt: now.Add(-2 * time.Hour),
	}
	calls := []model.Call{freshActive, freshClosed, freshActiveBSC, staleActive}

	tests := []struct {
		name     string
		criteria dto.FilterCriteria
		applied  serverPredicate
		wantIDs  []string
	}{
		{
			name:     "no criteria keeps everything in order",
			criteria: dto.FilterCriteria{},
			applied:  predicateNone,
			wantIDs:  []string{"a", "c", "d", "b"},
		},
		{
			name:     "network filter",
			criteria: dto.FilterCriteria{Network: model.NetworkSolana},
			applied:  predicateNone,
			wantIDs:  []string{"a", "c", "b"},
		},
		{
			name:     "strategy filter",
			criteria: dto.FilterCriteria{Strategy: model.StrategyLong},
			applied:  predicateNone,
			wantIDs:  []string{"c"},
		},
		{
			name:     "status re-applied when author took the server slot",
			criteria: dto.FilterCriteria{UserID: "u1", Status: model.CallStatusClosed},
			applied:  predicateAuthor,
			wantIDs:  []string{"c"},
		},
		{
			name:     "status not re-applied when already enforced remotely",
			criteria: dto.FilterCriteria{Status: model.CallStatusClosed},
			applied:  predicateStatus,
			wantIDs:  []string{"a", "c", "d", "b"},
		},
		{
			name:     "active window re-applied when author took the server slot",
			criteria: dto.FilterCriteria{UserID: "u1", ActiveOnly: true},
			applied:  predicateAuthor,
			wantIDs:  []string{"a", "d"},
		},
		{
			name:     "active window not re-applied when already enforced remotely",
			criteria: dto.FilterCriteria{ActiveOnly: true},
			applied:  predicateActiveWindow,
			wantIDs:  []string{"a", "c", "d", "b"},
		},
		{
			name:     "combined network and active window",
			criteria: dto.FilterCriteria{Network: model.NetworkSolana, ActiveOnly: true, Status: model.CallStatusActive},
			applied:  predicateStatus,
			wantIDs:  []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyResidualFilters(calls, tt.criteria, tt.applied, now)
			ids := make([]string, 0, len(got))
			for _, call := range got {
				ids = append(ids, call.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

// A status filter requested alongside an author filter only ever runs
// client-side; a call with the wrong status must still never leak through.
func TestStatusEnforcedWhenAuthorHoldsServerSlot(t *testing.T) {
	now := time.Now()
	calls := []model.Call{
		{ID: "active-1", Status: model.CallStatusActive, CreatedAt: now.Add(-time.Hour)},
		{ID: "closed-1", Status: model.CallStatusClosed, CreatedAt: now.Add(-time.Hour)},
	}

	got := applyResidualFilters(calls, dto.FilterCriteria{UserID: "u1", Status: model.CallStatusClosed}, predicateAuthor, now)
	require.Len(t, got, 1)
	assert.Equal(t, "closed-1", got[0].ID)

	for _, call := range got {
		assert.Equal(t, model.CallStatusClosed, call.Status)
	}
}

// A row stored without a creation time is normalized to "now" at decode
// time, which puts it inside the active window on the client-side pass; the
// server-side window predicate keeps NULL created_at rows for the same
// reason.
func TestActiveWindowKeepsDefaultedCreationTime(t *testing.T) {
	now := time.Now()

	call, err := decodeCall(callRow{ID: "no-created-at", Status: utils.ToPointer("active")}, now)
	require.NoError(t, err)

	got := applyResidualFilters([]model.Call{call}, dto.FilterCriteria{UserID: "u1", ActiveOnly: true}, predicateAuthor, now)
	require.Len(t, got, 1)
	assert.Equal(t, "no-created-at", got[0].ID)
}

// The seeded case from the feed contract: active+fresh, active+stale,
// closed+fresh; active-only returns exactly the first.
func TestActiveOnlySeededSet(t *testing.T) {
	now := time.Now()
	calls := []model.Call{
		{ID: "a", Status: model.CallStatusActive, CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "b", Status: model.CallStatusActive, CreatedAt: now.Add(-30 * time.Hour)},
		{ID: "c", Status: model.CallStatusClosed, CreatedAt: now.Add(-1 * time.Hour)},
	}

	got := applyResidualFilters(calls, dto.FilterCriteria{UserID: "u1", ActiveOnly: true}, predicateAuthor, now)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}
