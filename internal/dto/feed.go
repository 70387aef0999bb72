package dto

import "apevault/internal/model"

// FilterCriteria selects calls for the feed. All fields are optional; zero
// values mean "not set". The repository guarantees the returned calls satisfy
// every set field regardless of where each predicate was evaluated.
type FilterCriteria struct {
	UserID     string
	Status     model.CallStatus
	Network    model.Network
	Strategy   model.Strategy
	ActiveOnly bool
}

// GetCallsRequest is the query-parameter shape of GET /calls.
type GetCallsRequest struct {
	UserID     string `query:"user_id"`
	Status     string `query:"status" validate:"omitempty,oneof=active closed"`
	Network    string `query:"network" validate:"omitempty,oneof=solana bsc ethereum base ton tron sui cex"`
	Strategy   string `query:"strategy" validate:"omitempty,oneof=flip medium long"`
	ActiveOnly bool   `query:"active_only"`
}

func (r GetCallsRequest) ToCriteria() FilterCriteria {
	return FilterCriteria{
		UserID:     r.UserID,
		Status:     model.CallStatus(r.Status),
		Network:    model.Network(r.Network),
		Strategy:   model.Strategy(r.Strategy),
		ActiveOnly: r.ActiveOnly,
	}
}
