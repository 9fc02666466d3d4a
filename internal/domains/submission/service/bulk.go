package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/submission/model"
)

func (s *reviewService) BulkAction(ctx context.Context, adminID uuid.UUID, req model.BulkActionRequest) (*model.BulkActionResult, error) {
	// The whole request is rejected before any row is touched.
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}
	if req.Action == model.BulkActionExtendExpiry {
		if err := s.validateDays(req.Days); err != nil {
			return nil, err
		}
	}

	ids := uniqueIDs(req.SubmissionIDs)
	result := &model.BulkActionResult{
		Action:     req.Action,
		Successful: make([]uuid.UUID, 0, len(ids)),
		Failed:     make([]model.BulkFailure, 0),
	}

	for _, id := range ids {
		var err error
		switch req.Action {
		case model.BulkActionApprove:
			_, err = s.review(ctx, adminID, id, model.EventApprove, req.Notes, nil)
		case model.BulkActionReject:
			_, err = s.review(ctx, adminID, id, model.EventReject, req.Notes, req.RejectionReason)
		case model.BulkActionExtendExpiry:
			_, err = s.extend(ctx, adminID, id, req.Days)
		}

		if err != nil {
			log.Warn().Err(err).
				Str("submission_id", id.String()).
				Str("action", req.Action).
				Msg("[ReviewService] Bulk item failed")
			result.Failed = append(result.Failed, model.BulkFailure{ID: id, Reason: failureReason(err)})
			continue
		}
		result.Successful = append(result.Successful, id)
	}

	result.Summary = model.BulkSummary{
		Total:     len(ids),
		Succeeded: len(result.Successful),
		Failed:    len(result.Failed),
	}

	log.Info().
		Str("admin_id", adminID.String()).
		Str("action", req.Action).
		Int("succeeded", result.Summary.Succeeded).
		Int("failed", result.Summary.Failed).
		Msg("[ReviewService] Bulk action completed")

	return result, nil
}

// uniqueIDs drops repeats and keeps first-seen order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
