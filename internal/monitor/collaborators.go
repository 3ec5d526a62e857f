package monitor

import "errors"

// ErrPermissionDenied is reported by an Overlay whose draw-over permission
// has not been granted, and by a Capture without camera access.
var ErrPermissionDenied = errors.New("permission not granted")

// ErrCaptureCanceled is reported when the user backs out of the capture flow.
var ErrCaptureCanceled = errors.New("capture canceled")

// Overlay is the external collaborator that renders the blocking screen.
// RequestDisplay is fire-and-forget from the monitor's perspective: the
// overlay is informational and dismissible, and a failure here never stops
// event processing.
type Overlay interface {
	RequestDisplay() error
}

// Capture is the external photo-proof collaborator. A nil return means the
// user produced a proof photo.
type Capture interface {
	Capture() error
}

// NopOverlay accepts every display request. Used when the service runs
// without a device-side overlay attached.
type NopOverlay struct{}

func (NopOverlay) RequestDisplay() error { return nil }

// NopCapture succeeds every capture. Used when no camera collaborator is
// attached; completion then degrades to a plain confirmation.
type NopCapture struct{}

func (NopCapture) Capture() error { return nil }
