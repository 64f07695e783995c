// Package payment integrates Razorpay order creation and signature
// verification for subscription checkout.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when the Razorpay keys are absent.
var ErrNotConfigured = errors.New("payment gateway configuration missing")

// Plan is one subscription tier. Price is in paise.
type Plan struct {
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Features []string `json:"features"`
}

// Plans are the selectable subscription tiers.
var Plans = map[string]Plan{
	"free": {
		Name:     "Free",
		Price:    0,
		Features: []string{"10 generations/day", "5 languages"},
	},
	"pro": {
		Name:     "Pro",
		Price:    49900,
		Features: []string{"Unlimited generations", "21 languages", "Chrome Extension"},
	},
	"enterprise": {
		Name:     "Enterprise",
		Price:    199900,
		Features: []string{"All Pro features", "Priority Support", "API Access"},
	},
}

// Order is the slice of Razorpay's order object the frontend needs.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

const defaultEndpoint = "https://api.razorpay.com/v1"

// Client talks to the Razorpay REST API with basic auth.
type Client struct {
	keyID      string
	keySecret  string
	endpoint   string
	httpClient *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	return newClientWith(keyID, keySecret, defaultEndpoint, &http.Client{Timeout: 10 * time.Second})
}

func newClientWith(keyID, keySecret, endpoint string, httpClient *http.Client) *Client {
	return &Client{keyID: keyID, keySecret: keySecret, endpoint: endpoint, httpClient: httpClient}
}

// Configured reports whether both API keys are present.
func (c *Client) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

// KeyID is exposed to the frontend for the checkout widget.
func (c *Client) KeyID() string { return c.keyID }

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// CreateOrder creates a Razorpay order for the given amount in paise.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(orderRequest{Amount: amount, Currency: currency, Receipt: receipt, Notes: notes})
	if err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read razorpay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay error (status %d): %s", resp.StatusCode, body)
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

// VerifySignature checks the HMAC-SHA256 signature Razorpay sends back after
// checkout, computed over "order_id|payment_id".
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if c.keySecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
