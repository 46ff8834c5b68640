// Package workflow sequences the three-step verification wizard: review
// the resolved listing, capture evidence, submit. It owns all cross-step
// state and is driven from a single goroutine by discrete user actions.
package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"cropproof/internal/camera"
	"cropproof/internal/domain"
	"cropproof/internal/eligibility"
	"cropproof/internal/evidence"
	"cropproof/internal/fault"
	"cropproof/internal/geo"
	"cropproof/internal/journal"
	"cropproof/internal/photoset"
	"cropproof/internal/resolver"
	"cropproof/internal/submit"
)

// Step is the wizard position.
type Step int

const (
	StepReview Step = iota + 1
	StepCapture
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepReview:
		return "review"
	case StepCapture:
		return "capture"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// Config wires the workflow's collaborators.
type Config struct {
	Resolver   resolver.Strategy
	Gate       eligibility.Gate
	Camera     *camera.Controller
	Compositor evidence.Compositor
	Locator    geo.Locator
	Pipeline   submit.Pipeline
	Journal    journal.Writer
	Logger     *slog.Logger
}

// Workflow is one verification session.
type Workflow struct {
	cfg       Config
	sessionID string

	step        Step
	listing     domain.Listing
	resolved    bool
	eligibility *domain.VerificationState

	photos            photoset.Set
	cameraGranted     bool
	lastShotPreviewed bool
	submitting        bool

	err  error
	torn bool
}

// New creates a workflow at the review step.
func New(cfg Config) *Workflow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Workflow{cfg: cfg, sessionID: uuid.NewString(), step: StepReview}
}

// SessionID returns the session identifier used in the journal.
func (w *Workflow) SessionID() string { return w.sessionID }

// Step returns the current wizard step.
func (w *Workflow) Step() Step { return w.step }

// Listing returns the resolved listing context.
func (w *Workflow) Listing() domain.Listing { return w.listing }

// Eligibility returns the owner's verification state, or nil when unknown.
func (w *Workflow) Eligibility() *domain.VerificationState { return w.eligibility }

// Photos returns the captured photos in order.
func (w *Workflow) Photos() []domain.CapturedPhoto { return w.photos.Photos() }

// CameraGranted reports whether the user granted device access.
func (w *Workflow) CameraGranted() bool { return w.cameraGranted }

// LastShotPreviewed reports whether the latest capture is in preview.
func (w *Workflow) LastShotPreviewed() bool { return w.lastShotPreviewed }

// Submitting reports whether a submission is in flight.
func (w *Workflow) Submitting() bool { return w.submitting }

// Err returns the current workflow error, if any.
func (w *Workflow) Err() error { return w.err }

// ClearError drops the current inline error.
func (w *Workflow) ClearError() { w.err = nil }

// CanStart reports whether the capture step may be entered: the listing
// resolved and eligibility either permits or is unknown (fail-open).
func (w *Workflow) CanStart() bool {
	return w.resolved && (w.eligibility == nil || w.eligibility.CanSubmit)
}

// CanCaptureMore reports whether the photo cap leaves room.
func (w *Workflow) CanCaptureMore() bool { return !w.photos.Full() }

// Begin resolves the listing, then checks eligibility for its owner. The
// status check depends on the resolved owner id, so the two lookups are
// strictly sequential. A failed resolution is terminal for the session; a
// failed status check is not (the gate fails open).
func (w *Workflow) Begin(ctx context.Context, identifier string) error {
	listing, err := w.cfg.Resolver.Resolve(ctx, identifier)
	if w.torn {
		return nil
	}
	if err != nil {
		w.err = err
		w.journal(ctx, "context.failed", "", journal.Payload{"error": err.Error()})
		return err
	}
	w.listing = listing
	w.resolved = true
	w.journal(ctx, "context.resolved", listing.CropID, journal.Payload{
		"owner_id": listing.OwnerID, "crop_name": listing.CropName,
	})

	state := w.cfg.Gate.Check(ctx, listing.OwnerID)
	if w.torn {
		return nil
	}
	w.eligibility = state
	if state != nil {
		w.journal(ctx, "eligibility.checked", listing.CropID, journal.Payload{
			"status": string(state.Status), "can_submit": state.CanSubmit,
		})
	}
	return nil
}

// StartCapture moves review -> capture. Blocked while eligibility is known
// and forbids submission; the UI disables the action, and the workflow
// enforces it regardless.
func (w *Workflow) StartCapture() error {
	if w.step != StepReview {
		return nil
	}
	if !w.resolved {
		return fault.New(fault.KindContextUnavailable, "failed to load crop data")
	}
	if !w.CanStart() {
		msg := w.eligibility.BlockMessage
		if msg == "" {
			msg = "cannot submit new verification request"
		}
		err := fault.New(fault.KindSubmissionBlocked, msg)
		w.err = err
		return err
	}
	w.err = nil
	w.step = StepCapture
	return nil
}

// GoBack returns capture -> review, releasing the device and resetting
// capture-local flags. Captured photos are kept.
func (w *Workflow) GoBack() {
	if w.step != StepCapture {
		return
	}
	w.cfg.Camera.Release()
	w.cameraGranted = false
	w.lastShotPreviewed = false
	w.err = nil
	w.step = StepReview
}

// GrantAccess marks camera permission granted and acquires the device. It
// also takes a one-shot geolocation reading, best effort: denial is logged
// and never blocks the step.
func (w *Workflow) GrantAccess(ctx context.Context) error {
	if w.step != StepCapture {
		return nil
	}
	w.err = nil
	if w.cfg.Locator != nil {
		if pt, err := w.cfg.Locator.Current(ctx); err == nil {
			w.listing.Location = &pt
		} else {
			w.cfg.Logger.Warn("location reading unavailable", "error", err)
		}
	}
	w.cameraGranted = true
	return w.maybeAcquire(ctx)
}

// Capture extracts a still from the live frame, composes the evidence,
// appends it, and stops the device. The device stays live when composition
// fails so the user can try again.
func (w *Workflow) Capture(ctx context.Context) error {
	if w.step != StepCapture || w.photos.Full() {
		return nil
	}
	frame, err := w.cfg.Camera.Frame()
	if err != nil {
		w.err = err
		return err
	}
	photo, err := w.cfg.Compositor.Compose(frame)
	if err != nil {
		w.err = err
		return err
	}
	w.photos = w.photos.Append(photo)
	w.cfg.Camera.Release()
	w.lastShotPreviewed = true
	w.err = nil
	w.journal(ctx, "photo.captured", w.listing.CropID, journal.Payload{"count": w.photos.Len()})
	return nil
}

// Retake drops the last capture and restarts the device.
func (w *Workflow) Retake(ctx context.Context) error {
	if w.step != StepCapture {
		return nil
	}
	w.photos = w.photos.RemoveLast()
	w.lastShotPreviewed = false
	w.err = nil
	w.journal(ctx, "photo.removed", w.listing.CropID, journal.Payload{"count": w.photos.Len()})
	return w.maybeAcquire(ctx)
}

// CaptureAnother leaves the preview and restarts the device for the next
// shot, subject to the photo cap.
func (w *Workflow) CaptureAnother(ctx context.Context) error {
	if w.step != StepCapture || w.photos.Full() {
		return nil
	}
	w.lastShotPreviewed = false
	w.err = nil
	return w.maybeAcquire(ctx)
}

// RemovePhoto drops the photo at index; the rest keep their order and are
// reindexed.
func (w *Workflow) RemovePhoto(ctx context.Context, index int) {
	before := w.photos.Len()
	w.photos = w.photos.RemoveAt(index)
	if w.photos.Len() != before {
		w.journal(ctx, "photo.removed", w.listing.CropID, journal.Payload{"count": w.photos.Len()})
	}
}

// Submit transmits the evidence once. On success the workflow reaches its
// terminal done step; on any failure the submitting flag is cleared so the
// user can retry the action.
func (w *Workflow) Submit(ctx context.Context) error {
	if w.step != StepCapture || w.submitting {
		return nil
	}
	w.submitting = true
	w.err = nil
	w.cfg.Camera.Release()

	receipt, err := w.cfg.Pipeline.Submit(ctx, w.listing, w.eligibility, w.photos.Photos())
	w.submitting = false
	if w.torn {
		return nil
	}
	if err != nil {
		w.err = err
		evtType := "submission.failed"
		if fault.Is(err, fault.KindSubmissionBlocked) {
			evtType = "submission.blocked"
		}
		w.journal(ctx, evtType, w.listing.CropID, journal.Payload{"error": err.Error()})
		return err
	}
	w.step = StepDone
	w.journal(ctx, "submission.accepted", w.listing.CropID, journal.Payload{
		"request_id":      receipt.RequestID,
		"is_resubmission": receipt.IsResubmission,
	})
	return nil
}

// Teardown releases the device and marks the session gone; results of any
// still-pending lookups are dropped instead of applied.
func (w *Workflow) Teardown() {
	w.torn = true
	w.cfg.Camera.Release()
}

// maybeAcquire starts the device only when the capture step is active,
// permission was granted, no shot is sitting in preview, and the cap
// leaves room.
func (w *Workflow) maybeAcquire(ctx context.Context) error {
	if w.step != StepCapture || !w.cameraGranted || w.lastShotPreviewed || w.photos.Full() {
		return nil
	}
	if err := w.cfg.Camera.Acquire(ctx); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *Workflow) journal(ctx context.Context, evtType, cropID string, payload journal.Payload) {
	if err := w.cfg.Journal.Append(ctx, evtType, w.sessionID, cropID, payload); err != nil {
		w.cfg.Logger.Warn("journal append failed", "type", evtType, "error", err)
	}
}
