// bookingctl is a small operational client for the RyderX rental platform. It
// logs in (or reuses a saved token), lists the reservations visible to the
// account, and can hold, pay for or cancel a reservation while keeping the
// payment countdowns ticking in the foreground.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/ryderx/ryderx-go-sdk/auth"
	"github.com/ryderx/ryderx-go-sdk/booking"
)

func main() {
	var (
		hostFlag   = flag.String("host", "", "rental API host, including protocol (defaults to $RYDERX_HOST)")
		carID      = flag.Int64("car", 0, "car id to hold (book mode)")
		pickupLoc  = flag.Int64("pickup-location", 0, "pickup location id (book mode)")
		dropoffLoc = flag.Int64("dropoff-location", 0, "dropoff location id (book mode)")
		cancelID   = flag.Int64("cancel", 0, "reservation id to cancel")
		payID      = flag.Int64("pay", 0, "reservation id to open a checkout session for")
		watchMode  = flag.Bool("watch", false, "stay in the foreground and watch countdowns")
	)
	flag.Parse()

	// Optional; flags and real environment variables win over the .env file.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	host := *hostFlag
	if host == "" {
		host = os.Getenv("RYDERX_HOST")
	}
	if host == "" {
		logger.Error("no rental API host configured, set -host or $RYDERX_HOST")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token, err := sessionToken(ctx, host)
	if err != nil {
		logger.Error("login failed", "error", err)
		os.Exit(1)
	}

	session, err := booking.New(host, token)
	if err != nil {
		logger.Error("session setup failed", "error", err)
		os.Exit(1)
	}

	if err = session.Start(); err != nil {
		logger.Error("session start failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if stopErr := session.Stop(); stopErr != nil {
			logger.Error("session stop failed", "error", stopErr)
		}
	}()

	switch {
	case *cancelID != 0:
		err = cancelReservation(ctx, session, logger, *cancelID)

	case *payID != 0:
		err = openCheckout(ctx, session, logger, *payID)

	case *carID != 0:
		err = holdCar(ctx, session, logger, *carID, *pickupLoc, *dropoffLoc)

	default:
		err = listReservations(ctx, session, logger)
	}
	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}

	if *watchMode {
		watch(ctx, session, logger)
	}
}

// sessionToken returns a saved token if one is still valid, otherwise logs in
// with $RYDERX_EMAIL / $RYDERX_PASSWORD and saves the result.
func sessionToken(ctx context.Context, host string) (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}

	authPath := filepath.Join(dir, ".ryderx", "auth.json")

	if data, loadErr := auth.Load(authPath); loadErr == nil {
		if claims, decodeErr := auth.Decode(data.Token); decodeErr == nil && !claims.Expired(time.Now()) {
			return data.Token, nil
		}
		_ = auth.Clear(authPath)
	}

	email, password := os.Getenv("RYDERX_EMAIL"), os.Getenv("RYDERX_PASSWORD")
	if email == "" || password == "" {
		return "", fmt.Errorf("no saved token and $RYDERX_EMAIL/$RYDERX_PASSWORD not set")
	}

	resp, err := booking.Login(ctx, host, email, password)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(filepath.Dir(authPath), 0o744); err != nil {
		return "", fmt.Errorf("error creating auth directory: %w", err)
	}

	data := &auth.Data{
		Token:      resp.Token,
		Username:   resp.Username,
		Roles:      resp.Roles,
		Expiration: resp.Expiration,
	}
	if err = data.Save(authPath); err != nil {
		return "", err
	}

	return resp.Token, nil
}

func listReservations(ctx context.Context, session *booking.Session, logger *slog.Logger) error {
	reservations, err := session.Refresh(ctx)
	if err != nil {
		return err
	}

	for _, r := range reservations {
		attrs := []any{
			"reservation", r.ID,
			"car", r.CarName,
			"status", r.Status,
			"pickup", r.PickupAt.Format(time.RFC3339),
			"total", r.TotalPrice,
		}
		if remaining, ok := session.Remaining(r.ID); ok {
			attrs = append(attrs, "payWithin", booking.FormatRemaining(remaining))
		}
		logger.Info("reservation", attrs...)
	}

	return nil
}

func holdCar(ctx context.Context, session *booking.Session, logger *slog.Logger, carID, pickupLoc, dropoffLoc int64) error {
	cars, err := session.AvailableCars(ctx)
	if err != nil {
		return err
	}

	draft := &booking.Draft{
		PickupLocationID:  pickupLoc,
		DropoffLocationID: dropoffLoc,
		Hirer: booking.Hirer{
			FirstName: os.Getenv("RYDERX_FIRST_NAME"),
			LastName:  os.Getenv("RYDERX_LAST_NAME"),
			Email:     os.Getenv("RYDERX_EMAIL"),
			Phone:     os.Getenv("RYDERX_PHONE"),
		},
	}
	for i := range cars {
		if cars[i].ID == carID {
			draft.Car = &cars[i]
			break
		}
	}

	draft.Normalize(time.Now())

	quote := draft.Quote()
	logger.Info("quote", "days", quote.Days, "total", quote.Total)

	reservation, err := session.CreateHold(ctx, draft)
	if err != nil {
		return err
	}

	remaining, _ := session.Remaining(reservation.ID)
	logger.Info("hold placed",
		"reservation", reservation.ID,
		"total", reservation.TotalPrice,
		"payWithin", booking.FormatRemaining(remaining),
	)

	return nil
}

func openCheckout(ctx context.Context, session *booking.Session, logger *slog.Logger, reservationID int64) error {
	reservations, err := session.Refresh(ctx)
	if err != nil {
		return err
	}

	var amount int64
	for _, r := range reservations {
		if r.ID == reservationID {
			amount = r.TotalPrice
			break
		}
	}
	if amount == 0 {
		return fmt.Errorf("reservation %d not found", reservationID)
	}

	checkout, err := session.BeginCheckout(ctx, reservationID, amount)
	if err != nil {
		return err
	}

	// The checkout completes in a browser; print the hosted payment page URL.
	fmt.Println(checkout.URL)
	return nil
}

func cancelReservation(ctx context.Context, session *booking.Session, logger *slog.Logger, reservationID int64) error {
	reservations, err := session.Refresh(ctx)
	if err != nil {
		return err
	}

	for _, r := range reservations {
		if r.ID != reservationID {
			continue
		}
		if refund, refundErr := session.EstimateRefund(r); refundErr == nil {
			logger.Info("estimated refund", "reservation", reservationID, "amount", refund)
		}
	}

	if err = session.CancelHold(ctx, reservationID); err != nil {
		return err
	}

	logger.Info("reservation cancelled", "reservation", reservationID)
	return nil
}

// watch stays in the foreground, refreshing the reservation list on a schedule
// and logging countdown and status events until interrupted.
func watch(ctx context.Context, session *booking.Session, logger *slog.Logger) {
	scheduler := cron.New()
	_, err := scheduler.AddFunc("@every 30s", func() {
		if _, refreshErr := session.Refresh(ctx); refreshErr != nil {
			logger.Error("refresh failed", "error", refreshErr)
		}
	})
	if err != nil {
		logger.Error("scheduler setup failed", "error", err)
		return
	}

	scheduler.Start()
	defer scheduler.Stop()

	for {
		select {
		case id := <-session.OnExpired():
			logger.Warn("payment window elapsed, hold cancelled", "reservation", id)

		case id := <-session.OnResolved():
			logger.Info("reservation left pending state", "reservation", id)

		case change := <-session.OnStatusChanged():
			logger.Info("status changed", "reservation", change.ReservationID, "status", change.Status)

		case err := <-session.OnError():
			logger.Error("session error", "error", err)

		case <-ctx.Done():
			return
		}
	}
}
