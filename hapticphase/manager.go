package hapticphase

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticlog"
	"github.com/haptic-sync/beatctl/hapticmath"
)

const (
	// PersistKey is the ConfigStore key this manager reads/writes.
	PersistKey = "phase_shift_ms"

	minPhaseShiftMS = -2000
	maxPhaseShiftMS = 2000

	defaultPhaseShiftMS = 0
)

// Store is the subset of ConfigStore the manager needs. It is satisfied by
// *hapticstore.ConfigStore; defined here so this package does not import the
// storage implementation.
type Store interface {
	Load(key string, def int) int
	Save(key string, value int) error
}

// Manager holds PhaseShift, SessionDelta and PendingDelta, implementing the
// staged-delta commit model of spec section 4.6: a live re-phase during a
// run only ever touches SessionDelta/PendingDelta, and is persisted to the
// Store only when CommitOnStop is called.
type Manager struct {
	store Store
	log   *zerolog.Logger

	mu           sync.Mutex
	phaseShift   int
	sessionDelta int
	pendingDelta int
}

// NewManager loads the persisted PhaseShift (defaulting to 0) from store.
func NewManager(store Store, opts ...Option) *Manager {
	cfg := managerConfig{log: hapticlog.NewNoOp()}
	for _, o := range opts {
		o.Apply(&cfg)
	}

	return &Manager{
		store:      store,
		log:        cfg.log,
		phaseShift: store.Load(PersistKey, defaultPhaseShiftMS),
	}
}

// PhaseShift returns the persisted calibration value.
func (m *Manager) PhaseShift() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.phaseShift
}

// SessionDelta returns the volatile, not-yet-committed delta staged this session.
func (m *Manager) SessionDelta() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessionDelta
}

// PendingDelta returns the delta queued for the BeatScheduler's next tick,
// without consuming it.
func (m *Manager) PendingDelta() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pendingDelta
}

// Effective returns PhaseShift + SessionDelta, the offset currently used to
// translate a publisher's payload target into a local target_ms.
func (m *Manager) Effective() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.phaseShift + m.sessionDelta
}

// TakePendingDelta atomically reads and clears PendingDelta. Called once per
// BeatScheduler iteration (spec invariant I4).
func (m *Manager) TakePendingDelta() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.pendingDelta
	m.pendingDelta = 0

	return d
}

// Clamp restricts a requested effective phase shift to [-2000, 2000] (spec invariant I... range).
func Clamp(v int) int {
	return hapticmath.Clamp(v, minPhaseShiftMS, maxPhaseShiftMS)
}

// RequestRunning stages a live re-phase while the beat loop is running: the
// delta between newValue and the current effective phase shift is queued on
// PendingDelta (consumed once by the next beat) and accumulated into
// SessionDelta (not yet persisted). Returns the delta that was staged.
func (m *Manager) RequestRunning(newValue int) int {
	newValue = Clamp(newValue)

	m.mu.Lock()
	defer m.mu.Unlock()

	delta := newValue - (m.phaseShift + m.sessionDelta)
	m.pendingDelta += delta
	m.sessionDelta += delta

	return delta
}

// RequestIdle sets PhaseShift directly (Stopped or Scheduled state), clears
// any staged session/pending delta, and persists the new value. A
// persistence failure is logged and non-fatal: the in-memory value is
// already authoritative.
func (m *Manager) RequestIdle(newValue int) {
	newValue = Clamp(newValue)

	m.mu.Lock()
	m.phaseShift = newValue
	m.sessionDelta = 0
	m.pendingDelta = 0
	m.mu.Unlock()

	if err := m.store.Save(PersistKey, newValue); err != nil {
		m.log.Warn().Err(err).Int("phase_shift_ms", newValue).Msg("failed to persist phase shift")
	}
}

// CommitOnStop folds any staged SessionDelta into PhaseShift and persists
// it, then clears SessionDelta/PendingDelta. A persistence failure is
// logged and non-fatal.
func (m *Manager) CommitOnStop() {
	m.mu.Lock()

	if m.sessionDelta == 0 {
		m.pendingDelta = 0
		m.mu.Unlock()

		return
	}

	m.phaseShift += m.sessionDelta
	committed := m.phaseShift
	m.sessionDelta = 0
	m.pendingDelta = 0

	m.mu.Unlock()

	if err := m.store.Save(PersistKey, committed); err != nil {
		m.log.Warn().Err(err).Int("phase_shift_ms", committed).Msg("failed to persist committed phase shift")
	}
}
