package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vastra/internal/models"
)

const defaultBaseURL = "https://api.razorpay.com"

// RazorpayConfig configures the RazorpayClient.
type RazorpayConfig struct {
	KeyID      string
	KeySecret  string
	BaseURL    string       // defaults to the public Razorpay API
	HTTPClient *http.Client // injectable for tests
}

// RazorpayClient implements Provider against the Razorpay orders/payments
// REST API using basic auth. Signatures are HMAC-SHA256 over
// "orderRef|paymentID" keyed with the secret, hex encoded.
type RazorpayClient struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewRazorpayClient constructs a RazorpayClient from the given configuration.
func NewRazorpayClient(cfg RazorpayConfig) (*RazorpayClient, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, fmt.Errorf("razorpay: key id and key secret are required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RazorpayClient{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   baseURL,
		client:    client,
	}, nil
}

// CreateOrder registers a provider-side order. Amount is converted to minor
// units, matching what the provider expects.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*PaymentIntent, error) {
	payload := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &models.PaymentProviderError{Op: "create order", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, &models.PaymentProviderError{Op: "create order", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &models.PaymentProviderError{Op: "create order", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.PaymentProviderError{
			Op:  "create order",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readBody(resp.Body)),
		}
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, &models.PaymentProviderError{Op: "create order", Err: err}
	}
	return &intent, nil
}

// FetchPaymentStatus returns the provider status for a captured-or-not check.
func (c *RazorpayClient) FetchPaymentStatus(ctx context.Context, paymentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return "", &models.PaymentProviderError{Op: "fetch payment", Err: err}
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &models.PaymentProviderError{Op: "fetch payment", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &models.PaymentProviderError{
			Op:  "fetch payment",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readBody(resp.Body)),
		}
	}

	var payment struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return "", &models.PaymentProviderError{Op: "fetch payment", Err: err}
	}
	return payment.Status, nil
}

// VerifySignature checks the keyed-hash signature the client sends back after
// completing payment.
func (c *RazorpayClient) VerifySignature(orderRef, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderRef + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return models.ErrInvalidSignature
	}
	return nil
}

func readBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
