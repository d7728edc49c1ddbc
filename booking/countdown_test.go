package booking

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ryderx/ryderx-go-sdk/booking/internal/clock"
	"github.com/ryderx/ryderx-go-sdk/booking/model"
	"github.com/stretchr/testify/require"
)

func pendingReservation(id int64) model.Reservation {
	return model.Reservation{ID: id, Status: model.StatusPending}
}

func Test_Monitor_RemainingCountsDown(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	m := NewMonitor(NewMemoryStore(), clk, nil, make(chan error, 1))

	require.NoError(t, m.Observe(pendingReservation(1)))
	require.Equal(t, WatchRunning, m.State(1))

	remaining, ok := m.Remaining(1)
	require.True(t, ok)
	require.Equal(t, DefaultPaymentWindow, remaining)

	clk.Advance(90 * time.Second)
	remaining, ok = m.Remaining(1)
	require.True(t, ok)
	require.Equal(t, DefaultPaymentWindow-90*time.Second, remaining)

	// Past the window, remaining clamps to zero rather than going negative.
	clk.Advance(DefaultPaymentWindow)
	remaining, ok = m.Remaining(1)
	require.True(t, ok)
	require.Equal(t, time.Duration(0), remaining)
}

func Test_Monitor_RestartResumesCountdown(t *testing.T) {
	t.Parallel()

	start := time.Now().UTC()
	store := NewMemoryStore()
	require.NoError(t, store.Put(7, start))

	// A fresh monitor four minutes later must pick up the persisted start
	// rather than restarting the window.
	clk := clock.NewManual(start.Add(4 * time.Minute))
	m := NewMonitor(store, clk, nil, make(chan error, 1))

	require.NoError(t, m.Observe(pendingReservation(7)))

	remaining, ok := m.Remaining(7)
	require.True(t, ok)
	require.Equal(t, DefaultPaymentWindow-4*time.Minute, remaining)
}

func Test_Monitor_ExpiryCancelsExactlyOnce(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	store := NewMemoryStore()

	cancelCalls := int32(0)
	cancel := func(_ context.Context, _ int64) error {
		atomic.AddInt32(&cancelCalls, 1)
		return nil
	}

	m := NewMonitor(store, clk, cancel, make(chan error, 1))

	require.NoError(t, m.Observe(pendingReservation(1)))
	clk.Advance(DefaultPaymentWindow + time.Second)

	// Several ticks past expiry must flip the watch once and fire one cancel.
	m.tick()
	m.tick()
	m.tick()

	require.Equal(t, WatchExpired, m.State(1))
	require.Equal(t, int64(1), <-m.OnExpired())

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cancelCalls) == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), atomic.LoadInt32(&cancelCalls))

	_, ok, err := store.Get(1)
	require.NoError(t, err)
	require.False(t, ok)

	remaining, watched := m.Remaining(1)
	require.True(t, watched)
	require.Equal(t, time.Duration(0), remaining)
}

func Test_Monitor_AlreadyResolvedCancelIsSoft(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	chanError := make(chan error, 1)

	cancel := func(_ context.Context, _ int64) error {
		return model.ErrAlreadyResolved
	}

	m := NewMonitor(NewMemoryStore(), clk, cancel, chanError)

	require.NoError(t, m.Observe(pendingReservation(1)))
	clk.Advance(DefaultPaymentWindow)
	m.tick()

	require.Equal(t, WatchExpired, m.State(1))

	// The racing cancel losing to the server is not an error.
	time.Sleep(100 * time.Millisecond)
	require.Empty(t, chanError)
}

func Test_Monitor_ResolveStopsCountdown(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	store := NewMemoryStore()

	cancelCalls := int32(0)
	cancel := func(_ context.Context, _ int64) error {
		atomic.AddInt32(&cancelCalls, 1)
		return nil
	}

	m := NewMonitor(store, clk, cancel, make(chan error, 1))

	require.NoError(t, m.Observe(pendingReservation(3)))
	m.Resolve(3)

	require.Equal(t, WatchResolved, m.State(3))
	require.Equal(t, int64(3), <-m.OnResolved())

	_, ok, err := store.Get(3)
	require.NoError(t, err)
	require.False(t, ok)

	// A resolved watch never expires, even past the window.
	clk.Advance(DefaultPaymentWindow + time.Minute)
	m.tick()

	require.Equal(t, WatchResolved, m.State(3))
	require.Equal(t, int32(0), atomic.LoadInt32(&cancelCalls))
}

func Test_Monitor_IndependentCountdowns(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	m := NewMonitor(NewMemoryStore(), clk, nil, make(chan error, 1))

	require.NoError(t, m.Observe(pendingReservation(1)))
	clk.Advance(3 * time.Minute)
	require.NoError(t, m.Observe(pendingReservation(2)))

	first, ok := m.Remaining(1)
	require.True(t, ok)
	second, ok := m.Remaining(2)
	require.True(t, ok)
	require.Equal(t, 3*time.Minute, second-first)

	// Expiring the older hold leaves the newer one running.
	clk.Advance(DefaultPaymentWindow - 3*time.Minute)
	m.tick()

	require.Equal(t, WatchExpired, m.State(1))
	require.Equal(t, WatchRunning, m.State(2))
}

func Test_Monitor_ObserveNonPendingResolves(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	store := NewMemoryStore()
	m := NewMonitor(store, clk, nil, make(chan error, 1))

	require.NoError(t, m.Observe(pendingReservation(5)))
	require.Equal(t, WatchRunning, m.State(5))

	confirmed := model.Reservation{ID: 5, Status: model.StatusConfirmed}
	require.NoError(t, m.Observe(confirmed))

	require.Equal(t, WatchResolved, m.State(5))

	_, ok, err := store.Get(5)
	require.NoError(t, err)
	require.False(t, ok)
}

func Test_Monitor_ObserveIsIdempotentWhileRunning(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	m := NewMonitor(NewMemoryStore(), clk, nil, make(chan error, 1))

	require.NoError(t, m.Observe(pendingReservation(9)))
	clk.Advance(2 * time.Minute)

	// Re-fetching the same pending reservation must not restart its window.
	require.NoError(t, m.Observe(pendingReservation(9)))

	remaining, ok := m.Remaining(9)
	require.True(t, ok)
	require.Equal(t, DefaultPaymentWindow-2*time.Minute, remaining)
}

func Test_Monitor_TickLoop(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())

	cancelCalls := int32(0)
	cancel := func(_ context.Context, _ int64) error {
		atomic.AddInt32(&cancelCalls, 1)
		return nil
	}

	m := NewMonitor(NewMemoryStore(), clk, cancel, make(chan error, 1), WithTickInterval(5*time.Millisecond))
	m.Start()
	defer m.Stop()

	require.NoError(t, m.Observe(pendingReservation(1)))
	clk.Advance(DefaultPaymentWindow)

	require.Eventually(t, func() bool {
		return m.State(1) == WatchExpired
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cancelCalls) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func Test_FormatRemaining(t *testing.T) {
	t.Parallel()

	require.Equal(t, "10:00", FormatRemaining(10*time.Minute))
	require.Equal(t, "9:59", FormatRemaining(10*time.Minute-time.Second))
	require.Equal(t, "1:01", FormatRemaining(61*time.Second))
	require.Equal(t, "0:59", FormatRemaining(59*time.Second))
	require.Equal(t, "0:00", FormatRemaining(0))
	require.Equal(t, "0:00", FormatRemaining(-5*time.Second))
}
