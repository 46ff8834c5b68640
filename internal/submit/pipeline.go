// Package submit packages captured evidence into one multipart submission
// and interprets the verification service's answer. One attempt per user
// action; there is no automatic retry.
package submit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"cropproof/internal/api"
	"cropproof/internal/domain"
	"cropproof/internal/fault"
	"cropproof/internal/imaging"
)

// Pipeline compresses, assembles, and transmits one submission.
type Pipeline struct {
	Client     *api.Client
	Compressor imaging.Compressor
	Logger     *slog.Logger
}

// Submit checks preconditions in order, short-circuiting on the first
// failure: photos present, crop id present, eligibility permits. A nil
// state means eligibility is unknown and submission proceeds.
func (p Pipeline) Submit(ctx context.Context, listing domain.Listing, state *domain.VerificationState, photos []domain.CapturedPhoto) (domain.SubmissionReceipt, error) {
	if len(photos) == 0 {
		return domain.SubmissionReceipt{}, fault.New(fault.KindNoPhoto, "capture at least one photo before submitting")
	}
	if listing.CropID == "" {
		return domain.SubmissionReceipt{}, fault.New(fault.KindConfiguration, "crop id is missing")
	}
	if state != nil && !state.CanSubmit {
		msg := state.BlockMessage
		if msg == "" {
			msg = "cannot submit new verification request"
		}
		return domain.SubmissionReceipt{}, fault.New(fault.KindSubmissionBlocked, msg)
	}

	compressed, err := p.compressAll(ctx, photos)
	if err != nil {
		return domain.SubmissionReceipt{}, fault.Wrap(fault.KindSubmissionFailed, "submission failed, please try again", err)
	}

	req := api.SubmissionRequest{
		CropID:   listing.CropID,
		FullName: listing.FullName,
		Phone:    listing.Phone,
		Village:  listing.Village,
		Taluk:    listing.Taluk,
		District: listing.District,
		Quantity: listing.Quantity,
		Variety:  listing.Variety,
		Location: listing.Location,
		Photos:   compressed,
	}
	// Moisture and dry intent travel only for maize, and only when set.
	if listing.IsMaize() {
		req.Moisture = listing.Moisture
		req.WillDry = listing.WillDry
	}

	res, err := p.Client.SubmitVerification(ctx, req)
	if err != nil {
		return domain.SubmissionReceipt{}, classify(err)
	}
	if res.IsResubmission {
		p.logger().Info("submission supersedes a previously rejected attempt",
			"crop_id", listing.CropID, "request_id", res.RequestID)
	}
	return domain.SubmissionReceipt{RequestID: res.RequestID, IsResubmission: res.IsResubmission}, nil
}

// compressAll reduces every photo concurrently, preserving capture order.
func (p Pipeline) compressAll(ctx context.Context, photos []domain.CapturedPhoto) ([][]byte, error) {
	compressor := p.Compressor
	if compressor == nil {
		compressor = imaging.Reducer{}
	}
	out := make([][]byte, len(photos))
	g, gctx := errgroup.WithContext(ctx)
	for i, photo := range photos {
		i, photo := i, photo
		g.Go(func() error {
			b, err := compressor.Compress(gctx, photo.JPEG, imaging.Options{})
			if err != nil {
				return err
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func classify(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message()
		if apiErr.StatusCode == http.StatusConflict {
			if msg == "" {
				msg = "cannot submit new verification request"
			}
			return fault.Wrap(fault.KindSubmissionBlocked, msg, err)
		}
		if msg == "" {
			msg = "submission failed, please try again"
		}
		return fault.Wrap(fault.KindSubmissionFailed, msg, err)
	}
	return fault.Wrap(fault.KindSubmissionFailed, "submission failed, please try again", err)
}

func (p Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
