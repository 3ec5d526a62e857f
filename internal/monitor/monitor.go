package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crucial707/habitguard/internal/guard"
	"github.com/crucial707/habitguard/internal/metrics"
	"github.com/crucial707/habitguard/internal/models"
	"github.com/crucial707/habitguard/internal/recorder"
	"github.com/crucial707/habitguard/internal/store"
)

// State is the monitor's position in its two-state machine.
type State int

const (
	// Idle: no pending block.
	Idle State = iota
	// Blocking: the overlay has been requested and the block is unresolved.
	Blocking
)

func (s State) String() string {
	if s == Blocking {
		return "blocking"
	}
	return "idle"
}

// Monitor consumes foreground-change events and decides, per event, whether
// to interpose the blocking overlay. It is purely reactive: it never polls,
// and each event is evaluated statelessly against the evaluator. The only
// state retained across events is which package most recently triggered a
// block, used to suppress redundant overlay requests.
type Monitor struct {
	Store    *store.Store
	Blocked  guard.PackageSet
	Overlay  Overlay
	Capture  Capture
	Recorder *recorder.Recorder

	// Now is the wall clock; overridable in tests.
	Now func() time.Time

	events chan models.ForegroundEvent

	mu          sync.Mutex
	state       State
	blockingPkg string
}

// New builds a Monitor with a bounded event queue of the given size.
func New(st *store.Store, blocked guard.PackageSet, overlay Overlay, capture Capture, rec *recorder.Recorder, queueSize int) *Monitor {
	if queueSize <= 0 {
		queueSize = 64
	}
	m := &Monitor{
		Store:    st,
		Blocked:  blocked,
		Overlay:  overlay,
		Capture:  capture,
		Recorder: rec,
		Now:      time.Now,
		events:   make(chan models.ForegroundEvent, queueSize),
	}
	if rec != nil {
		rec.OnRecorded = m.onRecorded
	}
	return m
}

// Offer enqueues an event without blocking. It returns false when the queue
// is full; the event is dropped and the caller may report backpressure.
func (m *Monitor) Offer(ev models.ForegroundEvent) bool {
	select {
	case m.events <- ev:
		return true
	default:
		metrics.ForegroundEvents.WithLabelValues("dropped").Inc()
		return false
	}
}

// Run consumes events until ctx is canceled. No per-event failure terminates
// the loop; each event is isolated.
func (m *Monitor) Run(ctx context.Context) {
	slog.Info("monitor: started", "blocked_packages", len(m.Blocked))
	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor: stopped")
			return
		case ev := <-m.events:
			m.handle(ev)
		}
	}
}

// Snapshot returns the current state for status reporting.
func (m *Monitor) Snapshot() (State, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.blockingPkg
}

// ResolveWithProof runs the capture collaborator and, on success, records the
// task at (day, index) as accomplished, which resolves a pending block.
func (m *Monitor) ResolveWithProof(day string, index int) error {
	if err := m.Capture.Capture(); err != nil {
		if errors.Is(err, ErrCaptureCanceled) || errors.Is(err, ErrPermissionDenied) {
			return err
		}
		return fmt.Errorf("capture: %w", err)
	}
	return m.Recorder.RecordAccomplished(day, index)
}

// handle processes one event through the evaluator and drives the state
// machine. Store read failures are logged and the event skipped; the next
// event gets a fresh attempt.
func (m *Monitor) handle(ev models.ForegroundEvent) {
	if ev.Event != models.EventWindowStateChanged {
		metrics.ForegroundEvents.WithLabelValues("ignored").Inc()
		return
	}
	metrics.ForegroundEvents.WithLabelValues("processed").Inc()

	enabled, err := m.Store.IsMonitoringEnabled()
	if err != nil {
		slog.Error("monitor: read monitoring flag", "error", err)
		return
	}
	sched, err := m.Store.Get()
	if err != nil {
		slog.Error("monitor: read schedule", "error", err)
		return
	}

	now := m.Now()
	snap := guard.Snapshot{Schedule: sched, MonitoringEnabled: enabled}
	decision := guard.Evaluate(snap, guard.DayOf(now), now, ev.Package, m.Blocked)
	metrics.BlockDecisions.WithLabelValues(decision.String()).Inc()

	if decision == guard.Block {
		m.enterBlocking(ev.Package)
		return
	}
	m.leaveBlocking("foreground changed")
}

func (m *Monitor) enterBlocking(pkg string) {
	m.mu.Lock()
	if m.state == Blocking && m.blockingPkg == pkg {
		// Same still-blocked condition; do not re-request the overlay.
		m.mu.Unlock()
		return
	}
	m.state = Blocking
	m.blockingPkg = pkg
	m.mu.Unlock()

	metrics.MonitorBlocking.Set(1)
	slog.Info("monitor: block", "package", pkg)

	// Overlay failures are soft: the block state is kept and only the
	// display is skipped.
	switch err := m.Overlay.RequestDisplay(); {
	case err == nil:
		metrics.OverlayRequests.WithLabelValues("shown").Inc()
	case errors.Is(err, ErrPermissionDenied):
		metrics.OverlayRequests.WithLabelValues("permission_denied").Inc()
		slog.Warn("monitor: overlay permission missing, skipping display", "package", pkg)
	default:
		metrics.OverlayRequests.WithLabelValues("error").Inc()
		slog.Error("monitor: overlay request failed", "package", pkg, "error", err)
	}
}

func (m *Monitor) leaveBlocking(reason string) {
	m.mu.Lock()
	wasBlocking := m.state == Blocking
	pkg := m.blockingPkg
	m.state = Idle
	m.blockingPkg = ""
	m.mu.Unlock()

	if wasBlocking {
		metrics.MonitorBlocking.Set(0)
		slog.Info("monitor: unblock", "package", pkg, "reason", reason)
	}
}

// onRecorded is wired as the recorder's success callback.
func (m *Monitor) onRecorded(day string, index int) {
	m.leaveBlocking(fmt.Sprintf("task accomplished %s[%d]", day, index))
}
