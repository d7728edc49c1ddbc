package rentalapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/centrifugal/centrifuge-go"
	"github.com/google/uuid"
)

// Client represents a client to the RyderX rental platform API. Requests are
// authenticated with the bearer token supplied at construction; reservation
// status events arrive over a centrifuge websocket channel scoped to the user.
type Client struct {
	centrifugeClient *centrifuge.Client
	sub              *centrifuge.Subscription
	host             string
	token            string
	user             string
	httpClient       *http.Client
	callbacks        map[EventType]func(Event)
	done             chan struct{}
	chanSubscribed   chan struct{}
	chanError        chan<- error
}

// New constructs a new instance of the rental API client.
func New(host, token, user string, chanError chan<- error) (*Client, error) {
	hostWithoutProtocol := strings.ReplaceAll(host, "http://", "")
	return &Client{
		centrifugeClient: centrifuge.NewJsonClient(
			fmt.Sprintf("ws://%s/v1/connection/websocket", hostWithoutProtocol),
			centrifuge.DefaultConfig(),
		),
		host:           host,
		token:          token,
		user:           user,
		httpClient:     &http.Client{},
		callbacks:      map[EventType]func(Event){},
		done:           make(chan struct{}),
		chanSubscribed: make(chan struct{}),
		chanError:      chanError,
	}, nil
}

// Start subscribes to the event broker and connects to it. Start() blocks until
// the client has subscribed successfully.
func (c *Client) Start() error {
	if subscribeErr := c.subscribe(); subscribeErr != nil {
		return subscribeErr
	}

	if connectErr := c.centrifugeClient.Connect(); connectErr != nil {
		return connectErr
	}

	// Wait for the client to be subscribed before continuing.
	<-c.chanSubscribed
	return nil
}

// Stop stops the client.
func (c *Client) Stop() error {
	err := c.centrifugeClient.Close()
	close(c.done)
	return err
}

// RegisterCallback registers a callback function for the specified EventType.
func (c *Client) RegisterCallback(ev EventType, cb func(Event)) {
	c.callbacks[ev] = cb
}

// OnPublish implements centrifuge.PublishHandler and is triggered when a message
// is published to this subscriber.
func (c *Client) OnPublish(_ *centrifuge.Subscription, e centrifuge.PublishEvent) {
	event, err := unmarshalEvent(e.Data)
	if err != nil {
		select {
		case c.chanError <- err:
		default:
		}
		return
	}

	// Trigger the callback if one has been registered.
	if cb, ok := c.callbacks[event.Type()]; ok {
		cb(event)
	}
}

// OnSubscribeError implements centrifuge.SubscribeErrorHandler and is triggered
// when an error is encountered with this subscriber.
func (c *Client) OnSubscribeError(_ *centrifuge.Subscription, _ centrifuge.SubscribeErrorEvent) {
	// Retry subscribing. The broker may not have provisioned the user channel
	// by the time a fresh login connects.
	select {
	case <-c.done:
		return
	default:
		time.Sleep(1 * time.Second)

		if err := c.subscribe(); err != nil {
			select {
			case c.chanError <- err:
			default:
			}
		}
	}
}

// OnSubscribeSuccess implements centrifuge.SubscribeSuccessHandler and is
// triggered when the client has successfully subscribed to the broker.
func (c *Client) OnSubscribeSuccess(_ *centrifuge.Subscription, _ centrifuge.SubscribeSuccessEvent) {
	c.chanSubscribed <- struct{}{}
}

// subscribe creates a new subscription to the user's reservation channel and
// sets up relevant callbacks.
func (c *Client) subscribe() error {
	var subErr error
	if c.sub, subErr = c.centrifugeClient.NewSubscription(fmt.Sprintf("reservations#%s", c.user)); subErr != nil {
		return subErr
	}

	c.sub.OnSubscribeSuccess(c)
	c.sub.OnPublish(c)
	c.sub.OnSubscribeError(c)

	return c.sub.Subscribe()
}

// newRequest builds an authenticated request against the rental API. It returns
// the request ID attached to it, used to correlate error reports.
func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, "", fmt.Errorf("error creating request: %w", err)
	}

	// Add a request ID - if we cannot generate a UUID for any reason, just
	// populate an empty one.
	requestID, err := uuid.NewUUID()
	if err != nil {
		requestID = uuid.UUID{}
	}
	req.Header.Add("X-Request-ID", requestID.String())

	if c.token != "" {
		req.Header.Add("Authorization", "Bearer "+c.token)
	}

	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	return req, requestID.String(), nil
}
