package moderation

import (
	"context"
)

// BulkItemError records why one ad in a batch could not be moderated.
type BulkItemError struct {
	AdID  uint   `json:"ad_id"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// BulkResults lists the per-item outcomes of a bulk moderation run.
type BulkResults struct {
	Approved []uint          `json:"approved"`
	Rejected []uint          `json:"rejected"`
	Errors   []BulkItemError `json:"errors"`
}

// BulkSummary is the aggregate tally callers rely on.
type BulkSummary struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Errors   int `json:"errors"`
}

// BulkOutcome is the full caller-visible contract of a bulk run.
type BulkOutcome struct {
	Results BulkResults `json:"results"`
	Summary BulkSummary `json:"summary"`
}

// ModerateBulk applies one decision to an ordered list of ads. Each item runs
// in its own transaction; one item's failure neither rolls back nor blocks
// the rest — partial success is the expected outcome of a bulk operation.
func (g *Gate) ModerateBulk(ctx context.Context, adIDs []uint, actor Actor, dec Decision) BulkOutcome {
	out := BulkOutcome{
		Results: BulkResults{
			Approved: []uint{},
			Rejected: []uint{},
			Errors:   []BulkItemError{},
		},
	}
	out.Summary.Total = len(adIDs)

	for _, adID := range adIDs {
		ad, err := g.Moderate(ctx, adID, actor, dec)
		if err != nil {
			out.Results.Errors = append(out.Results.Errors, BulkItemError{
				AdID:  adID,
				Code:  ErrorCode(err),
				Error: err.Error(),
			})
			out.Summary.Errors++
			continue
		}
		switch dec.Action {
		case ActionApprove:
			out.Results.Approved = append(out.Results.Approved, ad.ID)
			out.Summary.Approved++
		case ActionReject:
			out.Results.Rejected = append(out.Results.Rejected, ad.ID)
			out.Summary.Rejected++
		}
	}
	return out
}
