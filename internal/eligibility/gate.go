// Package eligibility decides whether a new verification submission is
// permitted for a listing owner.
package eligibility

import (
	"context"
	"log/slog"

	"cropproof/internal/api"
	"cropproof/internal/domain"
)

// Gate fetches the owner's current verification status. The owner id comes
// from a resolved listing, so Check must not run before resolution.
type Gate struct {
	Client *api.Client
	Logger *slog.Logger
}

// Check returns the owner's verification state, or nil when the status
// service cannot answer. A nil state means "unknown" and the workflow
// defaults to permitting submission (fail-open): a down status service must
// not strand a legitimate user. The failure is logged, never surfaced.
func (g Gate) Check(ctx context.Context, ownerID string) *domain.VerificationState {
	res, err := g.Client.CurrentStatus(ctx, ownerID)
	if err != nil {
		g.logger().Warn("verification status check failed, submission permitted",
			"owner_id", ownerID, "error", err)
		return nil
	}
	return Normalize(res)
}

// Normalize maps a status service result into VerificationState, enforcing
// the CanSubmit/Status consistency rule: pending and approved always block,
// rejected and none always permit.
func Normalize(res api.StatusResult) *domain.VerificationState {
	state := &domain.VerificationState{
		HasVerification: res.HasVerification,
		CanSubmit:       res.CanSubmit,
		Status:          domain.VerificationStatus(res.Status),
		BlockMessage:    res.BlockMessage,
		ExistingID:      res.VerificationID,
	}
	switch state.Status {
	case domain.StatusPending, domain.StatusApproved:
		state.CanSubmit = false
	case domain.StatusRejected, domain.StatusNone:
		state.CanSubmit = true
	}
	return state
}

func (g Gate) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
