package model

type (
	// CheckoutRequest defines the model for the request to open a hosted
	// checkout session for a pending reservation.
	CheckoutRequest struct {
		ReservationID int64  `json:"reservationId"`
		Amount        int64  `json:"amount"`
		PaymentMethod string `json:"paymentMethod"`
	}

	// CheckoutSession defines the model for a hosted checkout session. URL is
	// where the browser must be navigated to complete payment; the payment UI
	// itself is hosted by the payment provider.
	CheckoutSession struct {
		URL       string `json:"url"`
		SessionID string `json:"sessionId"`
	}
)

// PaymentMethodStripe is the only payment method the platform currently offers.
const PaymentMethodStripe = "Stripe"
