// Package camera owns the capture device lifecycle. The workflow runs on a
// single goroutine, so the controller gates acquisition through state
// checks rather than locks.
package camera

import (
	"context"
	"errors"
	"time"

	"cropproof/internal/fault"
)

var (
	// ErrDenied means the user or platform refused device access.
	ErrDenied = errors.New("camera: access denied")
	// ErrNoDevice means no matching capture hardware exists.
	ErrNoDevice = errors.New("camera: no capture device")
	// ErrNoFrame means the device has not produced a usable frame yet.
	ErrNoFrame = errors.New("camera: no frame available")
)

// Frame is a single uncompressed frame. Pix is interleaved RGB,
// Width*Height*3 bytes. A zero-dimension frame means the device is still
// warming up.
type Frame struct {
	Width   int
	Height  int
	Pix     []byte
	TakenAt time.Time
}

// Facing selects which physical device to prefer.
type Facing int

const (
	FacingRear Facing = iota
	FacingFront
)

// Settings are the preferred acquisition parameters. Devices treat the
// resolution as ideal, not exact.
type Settings struct {
	Width  int
	Height int
	Facing Facing
}

// Device is the capture hardware boundary.
//
// Implementations must guarantee:
//   - Start acquires the device or fails with ErrDenied / ErrNoDevice
//   - Frame returns the latest frame; zero dimensions while warming up
//   - Stop is idempotent (stopping a stopped device is a no-op, never an error)
type Device interface {
	Start(ctx context.Context, s Settings) error
	Frame() (Frame, error)
	Stop() error
}

// State is the controller's acquisition state.
type State int

const (
	StateIdle State = iota
	StateAcquiring
	StateStreaming
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateStreaming:
		return "streaming"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Controller exclusively owns one device handle. Only one acquisition may
// be active at a time; re-acquiring while streaming is a no-op.
type Controller struct {
	device   Device
	settings Settings
	state    State
}

// NewController wraps a device with lifecycle tracking.
func NewController(device Device, settings Settings) *Controller {
	return &Controller{device: device, settings: settings}
}

// State returns the current acquisition state.
func (c *Controller) State() State { return c.state }

// Streaming reports whether the device handle is live.
func (c *Controller) Streaming() bool { return c.state == StateStreaming }

// Acquire starts the device. Denial or absent hardware comes back as a
// recoverable device-unavailable fault, never a crash; the controller
// returns to idle so the user can retry.
func (c *Controller) Acquire(ctx context.Context) error {
	if c.state == StateStreaming || c.state == StateAcquiring {
		return nil
	}
	c.state = StateAcquiring
	if err := c.device.Start(ctx, c.settings); err != nil {
		c.state = StateIdle
		return fault.Wrap(fault.KindDeviceUnavailable, "camera access denied or camera not ready", err)
	}
	c.state = StateStreaming
	return nil
}

// Frame returns the device's latest frame. Only valid while streaming.
func (c *Controller) Frame() (Frame, error) {
	if c.state != StateStreaming {
		return Frame{}, fault.Wrap(fault.KindDeviceUnavailable, "camera is not active", ErrNoFrame)
	}
	return c.device.Frame()
}

// Release stops the device unconditionally. Releasing an already-released
// or never-acquired device is a no-op.
func (c *Controller) Release() {
	if c.state != StateStreaming && c.state != StateAcquiring {
		c.state = StateReleased
		return
	}
	_ = c.device.Stop()
	c.state = StateReleased
}
