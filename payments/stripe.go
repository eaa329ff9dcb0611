// Package payments is the adapter for the Stripe HTTP API: checkout
// sessions, payment intents, refunds and the mirrored coupon resources.
// The gateway is treated as unreliable; every failure surfaces as a
// *GatewayError, never a panic.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "payments").Logger()

const defaultBaseURL = "https://api.stripe.com"

// Client talks to Stripe with a secret key fixed at construction time.
type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		// The gateway round-trip is the one external blocking point; the
		// timeout stays well above typical gateway latency.
		http: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionLine is one order line as presented to the gateway.
type SessionLine struct {
	Name      string
	UnitPrice decimal.Decimal
	Count     int
}

// Session is a freshly opened checkout session.
type Session struct {
	ID  string
	URL string
}

// SessionStatus reports whether a session has been paid and, if so, which
// payment intent settled it.
type SessionStatus struct {
	Paid            bool
	PaymentIntentID string
}

// CreateCheckoutSession opens a payment session for the given lines. When
// couponCode is non-empty a single fixed-amount coupon reference is
// attached, matching the coupon mirrored via CreateCoupon.
func (c *Client) CreateCheckoutSession(ctx context.Context, lines []SessionLine, couponCode, successURL, cancelURL string) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("payment_method_types[0]", "card")

	for i, line := range lines {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(toCents(line.UnitPrice), 10))
		form.Set(prefix+"[price_data][product_data][name]", line.Name)
		form.Set(prefix+"[quantity]", strconv.Itoa(line.Count))
	}
	if couponCode != "" {
		form.Set("discounts[0][coupon]", couponCode)
	}

	var body struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &body); err != nil {
		return nil, err
	}
	if body.URL == "" {
		return nil, &GatewayError{Op: "create session", Message: "gateway returned empty session url"}
	}
	logger.Info().Str("session_id", body.ID).Msg("checkout session opened")
	return &Session{ID: body.ID, URL: body.URL}, nil
}

// GetSessionStatus fetches a session's payment status.
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	var body struct {
		PaymentStatus string `json:"payment_status"`
		PaymentIntent string `json:"payment_intent"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, &body); err != nil {
		return nil, err
	}
	return &SessionStatus{
		Paid:            body.PaymentStatus != "unpaid",
		PaymentIntentID: body.PaymentIntent,
	}, nil
}

// GetIntentStatus fetches a payment intent's status string, e.g.
// "succeeded" or "requires_payment_method".
func (c *Client) GetIntentStatus(ctx context.Context, intentID string) (string, error) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(intentID), nil, &body); err != nil {
		return "", err
	}
	return body.Status, nil
}

// Refund refunds the full payment for the given intent. Partial refunds
// are not supported; the boolean is true only when the gateway reports
// the refund succeeded.
func (c *Client) Refund(ctx context.Context, intentID string) (bool, error) {
	form := url.Values{}
	form.Set("payment_intent", intentID)
	form.Set("reason", "requested_by_customer")

	var body struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/refunds", form, &body); err != nil {
		return false, err
	}
	logger.Info().Str("payment_intent", intentID).Str("status", body.Status).Msg("refund requested")
	return body.Status == "succeeded", nil
}

// CreateCoupon mirrors a local coupon into the gateway as a once-off
// fixed-amount coupon keyed by its code, returning the gateway id.
func (c *Client) CreateCoupon(ctx context.Context, code string, amount decimal.Decimal) (string, error) {
	form := url.Values{}
	form.Set("id", code)
	form.Set("name", code)
	form.Set("duration", "once")
	form.Set("currency", "usd")
	form.Set("amount_off", strconv.FormatInt(toCents(amount), 10))

	var body struct {
		ID    string `json:"id"`
		Valid bool   `json:"valid"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/coupons", form, &body); err != nil {
		return "", err
	}
	if !body.Valid {
		return "", &GatewayError{Op: "create coupon", Message: "gateway reported coupon invalid"}
	}
	return body.ID, nil
}

// DeleteCoupon removes the mirrored coupon. Callers delete the mirror
// before the local row so the two systems cannot silently drift.
func (c *Client) DeleteCoupon(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodDelete, "/v1/coupons/"+url.PathEscape(code), nil, nil)
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// do sends one form-encoded request and decodes the JSON response into
// out. Network failures, non-2xx responses and malformed bodies all come
// back as *GatewayError.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &GatewayError{Op: method + " " + path, Message: "building request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &GatewayError{Op: method + " " + path, Message: "gateway unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GatewayError{Op: method + " " + path, StatusCode: resp.StatusCode, Message: "reading response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gwErr := &GatewayError{Op: method + " " + path, StatusCode: resp.StatusCode}
		var apiErr struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			gwErr.Code = apiErr.Error.Code
			gwErr.Message = apiErr.Error.Message
		} else {
			gwErr.Message = strings.TrimSpace(string(raw))
		}
		logger.Warn().Int("status", resp.StatusCode).Str("op", gwErr.Op).Msg("gateway error")
		return gwErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &GatewayError{Op: method + " " + path, StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}
