package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// capture records the last request the stub gateway saw.
type capture struct {
	method string
	path   string
	auth   string
	form   url.Values
}

func stubGateway(t *testing.T, status int, body string) (*Client, *capture) {
	t.Helper()

	cap := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		cap.method = r.Method
		cap.path = r.URL.Path
		cap.auth = r.Header.Get("Authorization")
		cap.form = r.PostForm
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	return NewClient("sk_test_123", WithBaseURL(srv.URL)), cap
}

func TestCreateCheckoutSession(t *testing.T) {
	client, cap := stubGateway(t, http.StatusOK,
		`{"id":"cs_test_1","url":"https://pay.example.com/cs_test_1"}`)

	lines := []SessionLine{
		{Name: "Espresso Beans", UnitPrice: decimal.RequireFromString("12.50"), Count: 2},
		{Name: "Mug", UnitPrice: decimal.RequireFromString("7.99"), Count: 1},
	}
	session, err := client.CreateCheckoutSession(context.Background(), lines, "",
		"https://shop.example.com/cart/confirmation?order_id=7", "https://shop.example.com/cart")
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", session.ID)
	require.Equal(t, "https://pay.example.com/cs_test_1", session.URL)

	require.Equal(t, http.MethodPost, cap.method)
	require.Equal(t, "/v1/checkout/sessions", cap.path)
	require.Equal(t, "Bearer sk_test_123", cap.auth)
	require.Equal(t, "payment", cap.form.Get("mode"))
	require.Equal(t, "1250", cap.form.Get("line_items[0][price_data][unit_amount]"))
	require.Equal(t, "Espresso Beans", cap.form.Get("line_items[0][price_data][product_data][name]"))
	require.Equal(t, "2", cap.form.Get("line_items[0][quantity]"))
	require.Equal(t, "799", cap.form.Get("line_items[1][price_data][unit_amount]"))
	require.Empty(t, cap.form.Get("discounts[0][coupon]"))
}

func TestCreateCheckoutSessionAttachesCoupon(t *testing.T) {
	client, cap := stubGateway(t, http.StatusOK,
		`{"id":"cs_test_1","url":"https://pay.example.com/cs_test_1"}`)

	lines := []SessionLine{{Name: "Mug", UnitPrice: decimal.RequireFromString("7.99"), Count: 1}}
	_, err := client.CreateCheckoutSession(context.Background(), lines, "10OFF",
		"https://shop.example.com/ok", "https://shop.example.com/cancel")
	require.NoError(t, err)
	require.Equal(t, "10OFF", cap.form.Get("discounts[0][coupon]"))
}

func TestCreateCheckoutSessionEmptyURL(t *testing.T) {
	client, _ := stubGateway(t, http.StatusOK, `{"id":"cs_test_1","url":""}`)

	_, err := client.CreateCheckoutSession(context.Background(), nil, "", "a", "b")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
}

func TestGetSessionStatus(t *testing.T) {
	cases := []struct {
		paymentStatus string
		wantPaid      bool
	}{
		{"unpaid", false},
		{"paid", true},
		{"no_payment_required", true},
	}
	for _, tc := range cases {
		t.Run(tc.paymentStatus, func(t *testing.T) {
			client, cap := stubGateway(t, http.StatusOK,
				fmt.Sprintf(`{"payment_status":%q,"payment_intent":"pi_9"}`, tc.paymentStatus))

			status, err := client.GetSessionStatus(context.Background(), "cs_test_1")
			require.NoError(t, err)
			require.Equal(t, tc.wantPaid, status.Paid)
			require.Equal(t, "pi_9", status.PaymentIntentID)
			require.Equal(t, "/v1/checkout/sessions/cs_test_1", cap.path)
		})
	}
}

func TestGetIntentStatus(t *testing.T) {
	client, cap := stubGateway(t, http.StatusOK, `{"status":"requires_action"}`)

	status, err := client.GetIntentStatus(context.Background(), "pi_9")
	require.NoError(t, err)
	require.Equal(t, "requires_action", status)
	require.Equal(t, "/v1/payment_intents/pi_9", cap.path)
}

func TestRefund(t *testing.T) {
	client, cap := stubGateway(t, http.StatusOK, `{"status":"succeeded"}`)

	ok, err := client.Refund(context.Background(), "pi_9")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/v1/refunds", cap.path)
	require.Equal(t, "pi_9", cap.form.Get("payment_intent"))
	require.Equal(t, "requested_by_customer", cap.form.Get("reason"))
}

func TestRefundPendingIsNotSuccess(t *testing.T) {
	client, _ := stubGateway(t, http.StatusOK, `{"status":"pending"}`)

	ok, err := client.Refund(context.Background(), "pi_9")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCreateCoupon(t *testing.T) {
	client, cap := stubGateway(t, http.StatusOK, `{"id":"10OFF","valid":true}`)

	id, err := client.CreateCoupon(context.Background(), "10OFF", decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	require.Equal(t, "10OFF", id)
	require.Equal(t, "/v1/coupons", cap.path)
	require.Equal(t, "10OFF", cap.form.Get("id"))
	require.Equal(t, "once", cap.form.Get("duration"))
	require.Equal(t, "1000", cap.form.Get("amount_off"))
}

func TestDeleteCoupon(t *testing.T) {
	client, cap := stubGateway(t, http.StatusOK, `{"id":"10OFF","deleted":true}`)

	require.NoError(t, client.DeleteCoupon(context.Background(), "10OFF"))
	require.Equal(t, http.MethodDelete, cap.method)
	require.Equal(t, "/v1/coupons/10OFF", cap.path)
}

func TestGatewayErrorDecoded(t *testing.T) {
	client, _ := stubGateway(t, http.StatusPaymentRequired,
		`{"error":{"code":"card_declined","message":"Your card was declined."}}`)

	_, err := client.GetIntentStatus(context.Background(), "pi_9")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, http.StatusPaymentRequired, gwErr.StatusCode)
	require.Equal(t, "card_declined", gwErr.Code)
	require.Equal(t, "Your card was declined.", gwErr.Message)
}

func TestGatewayErrorRawBody(t *testing.T) {
	client, _ := stubGateway(t, http.StatusInternalServerError, "upstream exploded")

	_, err := client.GetIntentStatus(context.Background(), "pi_9")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, http.StatusInternalServerError, gwErr.StatusCode)
	require.Equal(t, "upstream exploded", gwErr.Message)
}

func TestGatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewClient("sk_test_123", WithBaseURL(srv.URL))

	_, err := client.GetIntentStatus(context.Background(), "pi_9")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Zero(t, gwErr.StatusCode)
}
