// Package rentalapitest provides a mock implementation of the RyderX rental
// platform API, for testing clients without a live backend.
package rentalapitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

// UserJWT is an unsigned but decodable token carrying sub "user-1", name
// "jordan" and the "User" role, expiring in 2100.
const UserJWT = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
	"eyJzdWIiOiJ1c2VyLTEiLCJuYW1lIjoiam9yZGFuIiwicm9sZXMiOlsiVXNlciJdLCJleHAiOjQxMDI0NDQ4MDB9." +
	"c2lnbmF0dXJl"

// MockRentalAPI represents a mock implementation of the rental platform API.
type MockRentalAPI struct {
	// Server handles arbitrary HTTP requests.
	Server *httptest.Server

	// Node is a centrifuge broker node handled via websockets.
	Node *centrifuge.Node

	// Host is the hostname of the platform, including protocol.
	Host string

	// JWT is the mock token this instance of the mock uses.
	JWT string

	// Reservation is the reservation creation response this mock uses.
	Reservation *model.Reservation

	// Reservations is the listing response this mock uses, for every role
	// endpoint.
	Reservations []model.Reservation

	// CheckoutSession is the checkout creation response this mock uses. Set
	// URL to "" to simulate a session without a redirect target.
	CheckoutSession *model.CheckoutSession

	// Locations and Cars are the catalog responses this mock uses.
	Locations []model.Location
	Cars      []model.Car

	// ConflictingCancels is the set of reservation ids whose cancellation
	// returns 409, simulating a hold that was paid or cancelled already.
	ConflictingCancels map[int64]bool

	// mtx guards cancelCalls.
	mtx         sync.Mutex
	cancelCalls map[int64]int
}

// NewRentalAPI sets up a websocket server with centrifuge which accepts all
// connections and subscriptions, plus handlers for the booking endpoints.
func NewRentalAPI() (*MockRentalAPI, error) {
	node, err := centrifuge.New(centrifuge.Config{})
	if err != nil {
		return nil, err
	}

	node.OnConnecting(func(_ context.Context, _ centrifuge.ConnectEvent) (centrifuge.ConnectReply, error) {
		return centrifuge.ConnectReply{
			Credentials: &centrifuge.Credentials{},
		}, nil
	})

	node.OnConnect(func(client *centrifuge.Client) {
		client.OnSubscribe(func(ev centrifuge.SubscribeEvent, cb centrifuge.SubscribeCallback) {
			cb(centrifuge.SubscribeReply{}, nil)
		})
	})

	if err = node.Run(); err != nil {
		return nil, err
	}

	m := &MockRentalAPI{
		Node: node,
		JWT:  UserJWT,
		Reservation: &model.Reservation{
			ID:                4321,
			CarID:             7,
			CarName:           "Swift Dzire",
			Status:            model.StatusPending,
			PickupLocationID:  1,
			DropoffLocationID: 2,
			PickupAt:          time.Now().Add(48 * time.Hour).UTC(),
			DropoffAt:         time.Now().Add(72 * time.Hour).UTC(),
			TotalPrice:        3900,
			CreatedAt:         time.Now().UTC(),
		},
		CheckoutSession: &model.CheckoutSession{
			URL:       "https://checkout.stripe.com/pay/cs_test_0001",
			SessionID: "cs_test_0001",
		},
		Locations: []model.Location{
			{ID: 1, Name: "Kochi Airport"},
			{ID: 2, Name: "Ernakulam South"},
		},
		Cars: []model.Car{
			{ID: 7, Make: "Maruti", Model: "Swift Dzire", Year: 2022, Category: "Sedan", FuelType: "Petrol", Transmission: "Manual", Seats: 5, PricePerDay: 1800, LocationID: 1, IsAvailable: true},
		},
		ConflictingCancels: map[int64]bool{},
		cancelCalls:        map[int64]int{},
	}
	m.Reservations = []model.Reservation{*m.Reservation}

	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	m.Host = m.Server.URL

	return m, nil
}

func (m *MockRentalAPI) handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	// Satisfy the request for a connection to a centrifuge broker.
	case "/v1/connection/websocket":
		centrifuge.NewWebsocketHandler(m.Node, centrifuge.WebsocketConfig{}).ServeHTTP(w, r)

	case "/authentication/login":
		_ = json.NewEncoder(w).Encode(&model.LoginResponse{
			Token:      m.JWT,
			Username:   "jordan",
			Roles:      []string{"User"},
			Expiration: time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		})

	case "/reservations":
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(m.Reservation)

		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(m.Reservations)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case "/reservations/user", "/reservations/agent/my":
		_ = json.NewEncoder(w).Encode(m.Reservations)

	case "/reservations/status":
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "/payments/create-checkout-session":
		_ = json.NewEncoder(w).Encode(m.CheckoutSession)

	case "/locations":
		_ = json.NewEncoder(w).Encode(m.Locations)

	case "/cars/available":
		_ = json.NewEncoder(w).Encode(m.Cars)

	default:
		if id, ok := strings.CutPrefix(r.URL.Path, "/reservations/cancel/"); ok && r.Method == http.MethodDelete {
			m.handleCancel(w, id)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func (m *MockRentalAPI) handleCancel(w http.ResponseWriter, id string) {
	reservationID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	m.mtx.Lock()
	m.cancelCalls[reservationID]++
	m.mtx.Unlock()

	if m.ConflictingCancels[reservationID] {
		w.WriteHeader(http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CancelCalls returns how many cancellation requests the mock has received
// for the given reservation.
func (m *MockRentalAPI) CancelCalls(reservationID int64) int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.cancelCalls[reservationID]
}

// PublishStatus pushes a reservation status event to the given user's
// reservation channel.
func (m *MockRentalAPI) PublishStatus(user string, reservationID int64, status model.Status) error {
	body, err := json.Marshal(map[string]any{
		"eventType":     "ReservationStatusEvent",
		"eventId":       strconv.FormatInt(reservationID, 10),
		"reservationId": reservationID,
		"status":        status,
	})
	if err != nil {
		return err
	}

	_, err = m.Node.Publish("reservations#"+user, body)
	return err
}

// Close closes the testing rental API server.
func (m *MockRentalAPI) Close() {
	m.Server.Close()
}
