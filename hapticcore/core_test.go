package hapticcore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haptic-sync/beatctl/hapticbeat"
	"github.com/haptic-sync/beatctl/hapticclock"
	"github.com/haptic-sync/beatctl/hapticphase"
)

type memStore struct {
	mu     sync.Mutex
	values map[string]int
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]int)}
}

func (s *memStore) Load(key string, def int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.values[key]; ok {
		return v
	}

	return def
}

func (s *memStore) Save(key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	return nil
}

type fakeActuator struct {
	mu        sync.Mutex
	initCount int64
	playCount int64
	stopCount int64
	closed    bool
	initErr   error
}

func (a *fakeActuator) Initialize(context.Context) error {
	atomic.AddInt64(&a.initCount, 1)

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.initErr
}

func (a *fakeActuator) Play(context.Context, int, int, [hapticbeat.MotorCount]byte, int) error {
	atomic.AddInt64(&a.playCount, 1)
	return nil
}

func (a *fakeActuator) StopAll(context.Context) error {
	atomic.AddInt64(&a.stopCount, 1)
	return nil
}

func (a *fakeActuator) Close(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true

	return nil
}

func newTestCore(t *testing.T) (*Core, *fakeActuator) {
	t.Helper()

	actuator := &fakeActuator{}
	clock := hapticclock.NewSystemClock()
	phase := hapticphase.NewManager(newMemStore())

	core := New(actuator, clock, phase, WithStatusPeriod(20*time.Millisecond))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = core.Close(ctx)
	})

	return core, actuator
}

func TestCore_SetBPM(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, core.SetBPM(ctx, 140))
	assert.Equal(t, 140, core.Status().BPM)

	err := core.SetBPM(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidBPM)
}

func TestCore_ScheduleStartAndStop(t *testing.T) {
	core, actuator := newTestCore(t)
	ctx := context.Background()

	targetMS := time.Now().UnixMilli() + 50

	require.NoError(t, core.ScheduleStart(ctx, targetMS))
	assert.Equal(t, Scheduled, core.Status().RunState)

	require.Eventually(t, func() bool {
		return core.Status().RunState == Running
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&actuator.playCount) > 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, core.Stop(ctx))
	assert.Equal(t, Stopped, core.Status().RunState)
	assert.GreaterOrEqual(t, atomic.LoadInt64(&actuator.stopCount), int64(1))
}

func TestCore_ScheduleStart_InitFailureReturnsToStopped(t *testing.T) {
	actuator := &fakeActuator{initErr: errors.New("bridge unreachable")}
	clock := hapticclock.NewSystemClock()
	phase := hapticphase.NewManager(newMemStore())

	core := New(actuator, clock, phase, WithStatusPeriod(20*time.Millisecond))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = core.Close(ctx)
	})

	ctx := context.Background()
	targetMS := time.Now().UnixMilli() + 20

	require.NoError(t, core.ScheduleStart(ctx, targetMS))
	assert.Equal(t, Scheduled, core.Status().RunState)

	require.Eventually(t, func() bool {
		return core.Status().RunState == Stopped
	}, 2*time.Second, 10*time.Millisecond)

	assert.Contains(t, core.Status().LastEventText, "failed")
}

func TestCore_ScheduleStart_RejectsStale(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	staleTargetMS := time.Now().UnixMilli() - 10000

	err := core.ScheduleStart(ctx, staleTargetMS)
	assert.ErrorIs(t, err, ErrStaleStart)
	assert.Equal(t, Stopped, core.Status().RunState)
}

func TestCore_ScheduleStart_RejectsImplausibleEpoch(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	err := core.ScheduleStart(ctx, 5000)
	assert.ErrorIs(t, err, ErrInvalidScheduleTarget)
	assert.Equal(t, Stopped, core.Status().RunState)
}

func TestCore_SetPhaseShift_ClampsRange(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, core.SetPhaseShift(ctx, 5000))
	assert.Equal(t, 2000, core.Status().PhaseShift)

	require.NoError(t, core.SetPhaseShift(ctx, -5000))
	assert.Equal(t, -2000, core.Status().PhaseShift)
}

func TestCore_CommandsAreSerialized(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(bpm int) {
			defer wg.Done()
			_ = core.SetBPM(ctx, bpm)
		}(i)
	}
	wg.Wait()

	status := core.Status()
	assert.GreaterOrEqual(t, status.BPM, 1)
	assert.LessOrEqual(t, status.BPM, 20)
}

func TestCore_CloseRejectsFurtherCommands(t *testing.T) {
	actuator := &fakeActuator{}
	clock := hapticclock.NewSystemClock()
	phase := hapticphase.NewManager(newMemStore())

	core := New(actuator, clock, phase)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, core.Close(ctx))

	err := core.SetBPM(ctx, 100)
	assert.ErrorIs(t, err, ErrClosed)

	actuator.mu.Lock()
	closed := actuator.closed
	actuator.mu.Unlock()
	assert.True(t, closed)
}

func TestCore_StatusSubscription(t *testing.T) {
	core, _ := newTestCore(t)

	sub := core.Subscribe()
	defer core.Unsubscribe(sub)

	snap, ok := sub.Next()
	require.True(t, ok)
	assert.Equal(t, Stopped, snap.RunState)
}
