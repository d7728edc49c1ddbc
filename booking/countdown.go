package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ryderx/ryderx-go-sdk/booking/internal/clock"
	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

type (
	// WatchState represents the countdown state of one watched reservation.
	WatchState int8

	// CancelFunc is the outbound call the monitor issues when a payment window
	// elapses. It must tolerate the reservation having been resolved already.
	CancelFunc func(ctx context.Context, reservationID int64) error

	// MonitorOption represents a function that modifies a property of the monitor.
	MonitorOption func(m *Monitor)

	// Monitor watches pending reservations and counts their payment windows
	// down. Each reservation id has an independent timer anchored to the
	// hold-start timestamp persisted in the record store, so a countdown
	// resumes rather than restarts after the process is relaunched.
	//
	// The window mirrors the server's own hold-expiry window: the countdown is
	// advisory UI state and the server stays the authority on actual expiry.
	Monitor struct {
		store     RecordStore
		clk       clock.Clock
		cancel    CancelFunc
		window    time.Duration
		tickEvery time.Duration
		storeFile string

		mu      sync.Mutex
		watches map[int64]*watch

		chanExpired  chan int64
		chanResolved chan int64
		chanError    chan<- error

		done chan struct{}
		wg   sync.WaitGroup
	}

	watch struct {
		start time.Time
		state WatchState
	}
)

const (
	// WatchInactive represents a reservation the monitor is not watching.
	WatchInactive = WatchState(iota)

	// WatchRunning represents a countdown in progress.
	WatchRunning

	// WatchExpired represents a payment window that ran out; the auto-cancel
	// has been issued. Terminal.
	WatchExpired

	// WatchResolved represents a hold that left the pending state before its
	// window elapsed, through payment or a manual cancel. Terminal.
	WatchResolved
)

const (
	// DefaultPaymentWindow is how long a hold stays payable before the monitor
	// auto-cancels it. It matches the platform's server-side hold window.
	DefaultPaymentWindow = 10 * time.Minute

	// DefaultTickInterval is how often countdowns are re-evaluated.
	DefaultTickInterval = 1 * time.Second
)

// NewMonitor creates a monitor over the given record store. Runtime errors
// (store failures, failed auto-cancels) are pushed to chanError and never stop
// the monitor; the server's own expiry is the safety net.
func NewMonitor(store RecordStore, clk clock.Clock, cancel CancelFunc, chanError chan<- error, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		store:        store,
		clk:          clk,
		cancel:       cancel,
		window:       DefaultPaymentWindow,
		tickEvery:    DefaultTickInterval,
		watches:      map[int64]*watch{},
		chanExpired:  make(chan int64, 8),
		chanResolved: make(chan int64, 8),
		chanError:    chanError,
		done:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithPaymentWindow overrides the payment window. Only useful when the
// platform's hold-expiry window is configured differently.
func WithPaymentWindow(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.window = d
		}
	}
}

// WithTickInterval overrides how often countdowns are re-evaluated.
func WithTickInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.tickEvery = d
		}
	}
}

// WithStoreFile enables watching the record store file for changes made by
// other processes sharing it.
func WithStoreFile(path string) MonitorOption {
	return func(m *Monitor) {
		m.storeFile = path
	}
}

// Start starts the tick loop and, when a store file is configured, the store
// watcher.
func (m *Monitor) Start() {
	m.wg.Add(1)
	go m.run()

	if m.storeFile != "" {
		m.wg.Add(1)
		go m.watchStoreFile()
	}
}

// Stop stops the monitor and waits for in-flight work to finish.
func (m *Monitor) Stop() {
	close(m.done)
	m.wg.Wait()
}

// OnExpired returns a read-only channel that receives the id of each
// reservation whose payment window ran out.
func (m *Monitor) OnExpired() <-chan int64 {
	return m.chanExpired
}

// OnResolved returns a read-only channel that receives the id of each
// reservation that left the pending state before its window elapsed.
func (m *Monitor) OnResolved() <-chan int64 {
	return m.chanResolved
}

// Observe feeds a freshly fetched reservation to the monitor. A pending
// reservation starts (or resumes) its countdown: if no record exists for its
// id one is written with the current time, otherwise the persisted start is
// kept so a reload cannot extend the window. A reservation in any other status
// resolves its watch and removes any stale record.
func (m *Monitor) Observe(r model.Reservation) error {
	if !r.Status.Is(model.StatusPending) {
		m.Resolve(r.ID)
		return m.store.Delete(r.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if w := m.watches[r.ID]; w != nil {
		return nil
	}

	start, ok, err := m.store.Get(r.ID)
	if err != nil {
		return err
	}

	if !ok {
		start = m.clk.Now()
		if err = m.store.Put(r.ID, start); err != nil {
			return err
		}
	}

	m.watches[r.ID] = &watch{start: start, state: WatchRunning}
	return nil
}

// Resolve marks a running countdown as resolved, stopping it and deleting its
// record. Safe to call for unwatched or already-terminal reservations; the
// first path to resolve or expire a reservation wins.
func (m *Monitor) Resolve(reservationID int64) {
	m.mu.Lock()
	w := m.watches[reservationID]
	if w == nil || w.state != WatchRunning {
		m.mu.Unlock()
		return
	}
	w.state = WatchResolved
	m.mu.Unlock()

	if err := m.store.Delete(reservationID); err != nil {
		m.pushError(fmt.Errorf("error deleting record for reservation %d: %w", reservationID, err))
	}

	m.notify(m.chanResolved, reservationID)
}

// State returns the countdown state for the reservation.
func (m *Monitor) State(reservationID int64) WatchState {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.watches[reservationID]
	if w == nil {
		return WatchInactive
	}
	return w.state
}

// Remaining returns the time left in the reservation's payment window. The
// second return is false when the monitor is not watching the reservation.
func (m *Monitor) Remaining(reservationID int64) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.watches[reservationID]
	if w == nil {
		return 0, false
	}

	switch w.state {
	case WatchRunning:
		remaining := m.window - m.clk.Now().Sub(w.start)
		if remaining < 0 {
			remaining = 0
		}
		return remaining, true

	case WatchExpired:
		return 0, true

	default:
		return 0, false
	}
}

// FormatRemaining renders a remaining duration as minutes:seconds with
// zero-padded seconds, the way the payment step displays it.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// run re-evaluates every running countdown once per tick.
func (m *Monitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.tick()

		case <-m.done:
			return
		}
	}
}

// tick flips countdowns that ran out to WatchExpired. The state changes under
// the lock before any cancel call is issued, so observing zero remaining on
// several consecutive ticks still fires exactly one auto-cancel.
func (m *Monitor) tick() {
	now := m.clk.Now()

	m.mu.Lock()
	var expired []int64
	for id, w := range m.watches {
		if w.state != WatchRunning {
			continue
		}
		if now.Sub(w.start) >= m.window {
			w.state = WatchExpired
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.expire(id)
	}
}

// expire deletes the reservation's record, notifies the consumer and issues
// the single auto-cancel attempt. The expiry notification does not wait for
// the network call: the visual state is driven by the timer reaching zero.
func (m *Monitor) expire(reservationID int64) {
	if err := m.store.Delete(reservationID); err != nil {
		m.pushError(fmt.Errorf("error deleting record for reservation %d: %w", reservationID, err))
	}

	m.notify(m.chanExpired, reservationID)

	if m.cancel == nil {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Single attempt; the server's own expiry handles the rest. A reply
		// that the reservation is already resolved means the manual-cancel
		// path or the server got there first.
		if err := m.cancel(ctx, reservationID); err != nil && !errors.Is(err, model.ErrAlreadyResolved) {
			m.pushError(fmt.Errorf("auto-cancel of reservation %d failed: %w", reservationID, err))
		}
	}()
}

// notify pushes an id to a channel consumer. Listening is optional, so make
// sure we don't block the tick loop if nobody is.
func (m *Monitor) notify(ch chan int64, reservationID int64) {
	select {
	case ch <- reservationID:
	default:
	}
}

// pushError pushes an error to a channel consumer. Listening for errors is
// optional, so this makes sure we don't deadlock if nobody is listening.
func (m *Monitor) pushError(err error) {
	select {
	case m.chanError <- err:
	default:
	}
}
