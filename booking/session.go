package booking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ryderx/ryderx-go-sdk/auth"
	"github.com/ryderx/ryderx-go-sdk/booking/internal/clock"
	"github.com/ryderx/ryderx-go-sdk/booking/internal/rentalapi"
	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

type (
	// StatusChange is pushed to the consumer when the platform reports a
	// reservation moving to a new status.
	StatusChange struct {
		ReservationID int64
		Status        model.Status
	}

	// Session represents an authenticated booking session against the RyderX
	// platform: it submits drafts as reservation holds, watches their payment
	// countdowns, opens hosted checkout sessions and relays status events.
	Session struct {
		host   string
		token  string
		claims *auth.Claims

		// storePath is the file countdown records persist to when no custom
		// record store is supplied.
		storePath string
		store     RecordStore
		clk       clock.Clock
		window    time.Duration
		tickEvery time.Duration

		monitor   *Monitor
		apiClient *rentalapi.Client

		// Event channels
		chanStatusChanged chan StatusChange
		chanError         chan error

		// In-flight guards, keyed by action and reservation id. The UI layer
		// must not fire a duplicate request for the same logical action while
		// one is outstanding.
		inflightMtx sync.Mutex
		inflight    map[string]struct{}
	}
)

var (
	// ErrNilContext represents that the context supplied is nil.
	ErrNilContext = errors.New("context is nil")

	// ErrNilArgs represents that the arguments supplied are nil.
	ErrNilArgs = errors.New("arguments supplied are nil")

	// ErrNotStarted represents a call made before Start().
	ErrNotStarted = errors.New("session is not started")

	// ErrRequestInFlight represents a duplicate request for an action that is
	// still outstanding.
	ErrRequestInFlight = errors.New("a request for this action is already in flight")
)

// New creates a new booking session for the given API host and bearer token.
// The token's claims determine the listing endpoint and the event channel the
// session subscribes to.
func New(host, token string, opts ...Option) (*Session, error) {
	claims, err := auth.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("error decoding token: %w", err)
	}

	dir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting user home directory: %w", err)
	}

	s := &Session{
		host:              host,
		token:             token,
		claims:            claims,
		storePath:         filepath.Join(dir, ".ryderx", "countdowns.json"),
		clk:               clock.NewSystem(),
		window:            DefaultPaymentWindow,
		tickEvery:         DefaultTickInterval,
		chanStatusChanged: make(chan StatusChange, 8),
		chanError:         make(chan error, 1),
		inflight:          map[string]struct{}{},
	}

	// Apply any specified options.
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Start connects the session: it subscribes to the reservation event channel,
// sets up the countdown store and starts the monitor. Consume OnExpired(),
// OnResolved() and OnStatusChanged() from another goroutine once started.
func (s *Session) Start() error {
	monitorOpts := []MonitorOption{
		WithPaymentWindow(s.window),
		WithTickInterval(s.tickEvery),
	}

	if s.store == nil {
		if err := os.MkdirAll(filepath.Dir(s.storePath), 0o744); err != nil {
			return fmt.Errorf("error creating store directory: %w", err)
		}
		s.store = NewFileStore(s.storePath)
		monitorOpts = append(monitorOpts, WithStoreFile(s.storePath))
	}

	apiClient, err := rentalapi.New(s.host, s.token, s.claims.Subject, s.chanError)
	if err != nil {
		return fmt.Errorf("error creating rental API client: %w", err)
	}

	apiClient.RegisterCallback(rentalapi.ReservationStatusEventType, s.watchReservationStatus)

	// The monitor must be running before the first status event can arrive.
	s.apiClient = apiClient
	s.monitor = NewMonitor(s.store, s.clk, apiClient.CancelReservation, s.chanError, monitorOpts...)
	s.monitor.Start()

	if err = apiClient.Start(); err != nil {
		s.monitor.Stop()
		s.monitor = nil
		s.apiClient = nil
		return fmt.Errorf("error connecting to event broker: %w", err)
	}

	return nil
}

// Stop stops the monitor and disconnects from the platform.
func (s *Session) Stop() error {
	if s.monitor != nil {
		s.monitor.Stop()
	}
	if s.apiClient != nil {
		return s.apiClient.Stop()
	}
	return nil
}

// OnExpired returns a read-only channel that receives the id of each
// reservation whose payment window ran out.
func (s *Session) OnExpired() <-chan int64 {
	if s.monitor == nil {
		return nil
	}
	return s.monitor.OnExpired()
}

// OnResolved returns a read-only channel that receives the id of each
// reservation that left the pending state before expiry.
func (s *Session) OnResolved() <-chan int64 {
	if s.monitor == nil {
		return nil
	}
	return s.monitor.OnResolved()
}

// OnStatusChanged returns a read-only channel that receives reservation status
// events pushed by the platform.
func (s *Session) OnStatusChanged() <-chan StatusChange {
	return s.chanStatusChanged
}

// OnError returns a read-only channel that receives messages when the session
// encounters an error.
func (s *Session) OnError() <-chan error {
	return s.chanError
}

// CreateHold validates the draft and submits it, placing a hold on the
// vehicle. On success the reservation's countdown starts immediately; complete
// payment before the window runs out or the hold is auto-cancelled. Server
// rejections are returned verbatim.
func (s *Session) CreateHold(ctx context.Context, draft *Draft) (*model.Reservation, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if draft == nil {
		return nil, ErrNilArgs
	}
	if s.monitor == nil {
		return nil, ErrNotStarted
	}

	if err := draft.Validate(s.clk.Now()); err != nil {
		return nil, err
	}

	reservation, err := s.apiClient.CreateReservation(ctx, draft.Request())
	if err != nil {
		return nil, err
	}

	if err = s.monitor.Observe(*reservation); err != nil {
		s.PushError(fmt.Errorf("error recording countdown for reservation %d: %w", reservation.ID, err))
	}

	return reservation, nil
}

// CancelHold cancels a reservation. A model.ErrAlreadyResolved return means
// the reservation had already left the pending state, which callers should
// treat as a soft success and at most log. Either way the local countdown is
// resolved.
func (s *Session) CancelHold(ctx context.Context, reservationID int64) error {
	if ctx == nil {
		return ErrNilContext
	}
	if s.monitor == nil {
		return ErrNotStarted
	}

	if err := s.begin("cancel", reservationID); err != nil {
		return err
	}
	defer s.end("cancel", reservationID)

	err := s.apiClient.CancelReservation(ctx, reservationID)
	if err == nil || errors.Is(err, model.ErrAlreadyResolved) {
		s.monitor.Resolve(reservationID)
	}

	return err
}

// BeginCheckout requests a hosted checkout session for a pending reservation.
// The caller must perform a full navigation to the returned URL; on error no
// navigation happens and the user retries manually.
func (s *Session) BeginCheckout(ctx context.Context, reservationID, amount int64) (*model.CheckoutSession, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if s.apiClient == nil {
		return nil, ErrNotStarted
	}

	if err := s.begin("checkout", reservationID); err != nil {
		return nil, err
	}
	defer s.end("checkout", reservationID)

	return s.apiClient.CreateCheckoutSession(ctx, &model.CheckoutRequest{
		ReservationID: reservationID,
		Amount:        amount,
		PaymentMethod: model.PaymentMethodStripe,
	})
}

// Refresh fetches the reservations visible to the session's role and feeds
// them to the countdown monitor: pending holds start or resume their
// countdowns, anything else resolves them. Call after navigation and
// periodically while a booking list is on screen.
func (s *Session) Refresh(ctx context.Context) ([]model.Reservation, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if s.monitor == nil {
		return nil, ErrNotStarted
	}

	reservations, err := s.apiClient.Reservations(ctx, s.claims.Roles)
	if err != nil {
		return nil, err
	}

	for _, r := range reservations {
		if err = s.monitor.Observe(r); err != nil {
			s.PushError(fmt.Errorf("error recording countdown for reservation %d: %w", r.ID, err))
		}
	}

	return reservations, nil
}

// UpdateStatus moves a reservation to a new status. Agent/admin flows only;
// the countdown never drives this.
func (s *Session) UpdateStatus(ctx context.Context, reservationID int64, status model.Status) error {
	if ctx == nil {
		return ErrNilContext
	}
	if s.apiClient == nil {
		return ErrNotStarted
	}

	return s.apiClient.UpdateReservationStatus(ctx, &model.UpdateStatusRequest{
		ReservationID: reservationID,
		Status:        status,
	})
}

// Locations fetches all rental locations.
func (s *Session) Locations(ctx context.Context) ([]model.Location, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if s.apiClient == nil {
		return nil, ErrNotStarted
	}
	return s.apiClient.Locations(ctx)
}

// AvailableCars fetches the vehicles currently offered for rental.
func (s *Session) AvailableCars(ctx context.Context) ([]model.Car, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if s.apiClient == nil {
		return nil, ErrNotStarted
	}
	return s.apiClient.AvailableCars(ctx)
}

// EstimateRefund returns the advisory refund for cancelling the reservation
// now. Only confirmed reservations qualify; pending holds are governed by the
// payment countdown instead.
func (s *Session) EstimateRefund(r model.Reservation) (int64, error) {
	if !r.Status.Is(model.StatusConfirmed) {
		return 0, ErrRefundNotApplicable
	}
	return EstimateRefund(r, s.clk.Now()), nil
}

// Remaining returns the time left in a watched reservation's payment window.
func (s *Session) Remaining(reservationID int64) (time.Duration, bool) {
	if s.monitor == nil {
		return 0, false
	}
	return s.monitor.Remaining(reservationID)
}

// CountdownState returns the countdown state for a reservation.
func (s *Session) CountdownState(reservationID int64) WatchState {
	if s.monitor == nil {
		return WatchInactive
	}
	return s.monitor.State(reservationID)
}

// Roles returns the roles carried by the session's token.
func (s *Session) Roles() []string {
	return s.claims.Roles
}

// watchReservationStatus is the callback for status events pushed by the
// platform. A reservation leaving the pending state resolves its countdown,
// so a hold paid or cancelled elsewhere stops ticking here without a refetch.
func (s *Session) watchReservationStatus(ev rentalapi.Event) {
	se, ok := ev.(*rentalapi.ReservationStatusEvent)
	if !ok {
		return
	}

	if !se.Status.Is(model.StatusPending) && s.monitor != nil {
		s.monitor.Resolve(se.ReservationID)
	}

	select {
	case s.chanStatusChanged <- StatusChange{ReservationID: se.ReservationID, Status: se.Status}:
	default:
	}
}

// begin marks an action in flight for a reservation, failing if one already is.
func (s *Session) begin(action string, reservationID int64) error {
	key := fmt.Sprintf("%s:%d", action, reservationID)

	s.inflightMtx.Lock()
	defer s.inflightMtx.Unlock()

	if _, ok := s.inflight[key]; ok {
		return ErrRequestInFlight
	}

	s.inflight[key] = struct{}{}
	return nil
}

// end clears the in-flight mark for an action.
func (s *Session) end(action string, reservationID int64) {
	s.inflightMtx.Lock()
	delete(s.inflight, fmt.Sprintf("%s:%d", action, reservationID))
	s.inflightMtx.Unlock()
}

// Login authenticates against the rental platform and returns the token and
// role data to construct a Session with.
func Login(ctx context.Context, host, email, password string) (*model.LoginResponse, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return rentalapi.Login(ctx, host, &model.LoginRequest{Email: email, Password: password})
}
