package draft

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/kv"
	"github.com/qfast/qfast/internal/metrics"
)

// Phase is the draft session's position in the suspend/resume lifecycle.
type Phase int

const (
	// PhaseEditing: the editing surface is in the foreground.
	PhaseEditing Phase = iota
	// PhaseSuspended: focus was lost; a snapshot may be on disk.
	PhaseSuspended
	// PhaseResuming: focus returned inside the switch window; the
	// switching flag stays up until the settle deadline passes so a
	// navigation guard firing right after focus does not misread the
	// return as a departure.
	PhaseResuming
	// PhaseAbandoned: the session went stale or the user navigated away;
	// the next guard check clears the draft.
	PhaseAbandoned
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSuspended:
		return "suspended"
	case PhaseResuming:
		return "resuming"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

const (
	// SwitchWindow is how long after focus loss a focus regain still
	// counts as an incidental tab switch rather than abandonment.
	SwitchWindow = 3 * time.Minute

	// SettleDelay is how long the switching flag stays up after a
	// within-window focus regain.
	SettleDelay = time.Second
)

// Storage keys. Signals live in the session tier and vanish with the
// process; the snapshot lives in the persistent tier so an in-progress
// draft survives a restart.
const (
	keyBlurTime    = "qf_blur_time"
	keyIsSwitching = "qf_is_switching"
	keyOnDraftPage = "qf_on_draft_page"
	keySnapshot    = "qf_draft_snapshot"
)

// Session drives the resume/discard heuristic for one draft flow. It is a
// debounce mechanism, not a correctness mechanism: it exists to avoid
// losing edits on accidental tab switches while still clearing stale
// drafts, and must never be relied on for exactly-once submission.
type Session struct {
	store      *Store
	signals    kv.Store // session tier
	durable    kv.Store // persistent tier
	logger     *slog.Logger
	now        func() time.Time

	mu          sync.Mutex
	phase       Phase
	settleUntil time.Time
}

// NewSession wires a session to its draft store and storage tiers and
// attaches itself as the store's persistence purger.
func NewSession(store *Store, signals, durable kv.Store, logger *slog.Logger) *Session {
	s := &Session{
		store:   store,
		signals: signals,
		durable: durable,
		logger:  logger,
		now:     time.Now,
		phase:   PhaseEditing,
	}
	store.persistence = s
	return s
}

// SetClock replaces the wall clock. Test hook.
func (s *Session) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Phase returns the current lifecycle phase, first applying any settle
// deadline that has passed.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleLocked()
	return s.phase
}

// settleLocked finishes the Resuming phase once the settle deadline is
// behind us. Callers hold mu.
func (s *Session) settleLocked() {
	if s.phase == PhaseResuming && !s.now().Before(s.settleUntil) {
		s.phase = PhaseEditing
		if err := s.signals.Delete(keyIsSwitching); err != nil {
			s.logger.Warn("clearing switch flag failed", "error", err)
		}
	}
}

// Blur handles the editing surface losing foreground focus: record when
// it happened, assert a switch is in progress, and snapshot the draft if
// there is anything worth keeping.
func (s *Session) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.signals.Set(keyBlurTime, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		s.logger.Warn("recording blur time failed", "error", err)
	}
	if err := s.signals.Set(keyIsSwitching, "true"); err != nil {
		s.logger.Warn("setting switch flag failed", "error", err)
	}

	if s.store.HasProgress() {
		if encoded, err := EncodeSnapshot(s.store.Snapshot()); err != nil {
			s.logger.Error("draft snapshot failed", "error", err)
		} else if err := s.durable.Set(keySnapshot, encoded); err != nil {
			s.logger.Error("persisting draft snapshot failed", "error", err)
		}
	}

	s.phase = PhaseSuspended
}

// Focus handles focus regain. The snapshot, if any, is restored into the
// store best effort. A regain inside the switch window keeps the switching
// flag up until the settle deadline; beyond the window the session is
// stale and the flag drops immediately.
func (s *Session) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	restored := s.restoreLocked()

	blurAt, ok := s.blurTimeLocked()
	if ok && now.Sub(blurAt) < SwitchWindow {
		s.phase = PhaseResuming
		s.settleUntil = now.Add(SettleDelay)
		if restored {
			metrics.DraftsResumed.Inc()
		}
		return
	}

	if err := s.signals.Delete(keyIsSwitching); err != nil {
		s.logger.Warn("clearing switch flag failed", "error", err)
	}
	s.phase = PhaseAbandoned
}

// restoreLocked loads the persisted snapshot into the store. A missing or
// undecodable snapshot is not an error; the draft simply stays as it is.
func (s *Session) restoreLocked() bool {
	encoded, err := s.durable.Get(keySnapshot)
	if err != nil {
		if err != kv.ErrNotFound {
			s.logger.Warn("reading draft snapshot failed", "error", err)
		}
		return false
	}

	snap, err := DecodeSnapshot(encoded)
	if err != nil {
		s.logger.Warn("stored draft snapshot unusable, keeping current draft", "error", err)
		return false
	}

	s.store.Restore(snap)
	return true
}

// blurTimeLocked reads the recorded blur timestamp.
func (s *Session) blurTimeLocked() (time.Time, bool) {
	raw, err := s.signals.Get(keyBlurTime)
	if err != nil {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// IsSwitching reports whether a tab switch is currently believed to be in
// progress: the flag is set and the recorded blur is still inside the
// switch window (or the post-focus settle delay has not elapsed).
func (s *Session) IsSwitching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleLocked()

	if s.phase == PhaseResuming {
		return true
	}

	if _, err := s.signals.Get(keyIsSwitching); err != nil {
		return false
	}
	blurAt, ok := s.blurTimeLocked()
	if !ok {
		return true
	}
	return s.now().Sub(blurAt) < SwitchWindow
}

// HandleNavigation is the guard consulted before navigation away from the
// creation flow. A switch in progress lets the navigation proceed with
// draft data intact; otherwise leaving the flow abandons the draft. It
// returns true when the draft was cleared.
func (s *Session) HandleNavigation(leavingFlow bool) bool {
	if s.IsSwitching() {
		return false
	}
	if !leavingFlow {
		return false
	}

	s.store.ClearFormData()

	s.mu.Lock()
	s.phase = PhaseAbandoned
	s.mu.Unlock()

	metrics.DraftsAbandoned.Inc()
	return true
}

// EnteringFlow runs at the creation-flow entry point. A first entry gets
// the fresh-start reset with a newly allocated quote number; returning to
// the flow with a live draft session skips the reset so restored state
// survives.
func (s *Session) EnteringFlow(ctx context.Context, userID uuid.UUID) {
	if _, err := s.signals.Get(keyOnDraftPage); err == nil {
		s.mu.Lock()
		s.phase = PhaseEditing
		s.mu.Unlock()
		return
	}

	s.store.ResetForm(ctx, userID)

	s.mu.Lock()
	if err := s.signals.Set(keyOnDraftPage, "true"); err != nil {
		s.logger.Warn("marking draft page failed", "error", err)
	}
	s.phase = PhaseEditing
	s.mu.Unlock()
}

// Purge removes every storage key this session owns, in both tiers.
func (s *Session) Purge() {
	for _, key := range []string{keyBlurTime, keyIsSwitching, keyOnDraftPage} {
		if err := s.signals.Delete(key); err != nil {
			s.logger.Warn("deleting draft signal failed", "key", key, "error", err)
		}
	}
	if err := s.durable.Delete(keySnapshot); err != nil {
		s.logger.Warn("deleting draft snapshot failed", "error", err)
	}
}
