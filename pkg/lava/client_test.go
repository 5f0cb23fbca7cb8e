package lava

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/walletchat/pkg/config"
	"github.com/amirasaad/walletchat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.Lava{
		SecretKey:     "sk_test_123",
		ProductSecret: "ps_test_456",
		ApiVersion:    "2025-03-27.v1",
		ApiUrl:        srv.URL,
	}, slog.Default())
}

func TestRetrieveConnection(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/connections/cn_123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "2025-03-27.v1", r.Header.Get("Lava-Api-Version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(
			`{"connection_id":"cn_123","connection_secret":"cs_secret",` +
				`"wallet":{"balance":"12.50","email":"user@example.com"}}`))
	}))

	conn, err := client.RetrieveConnection(context.Background(), "cn_123")
	require.NoError(t, err)
	assert.Equal(t, "cn_123", conn.ID)
	assert.Equal(t, "cs_secret", conn.Secret)
	require.NotNil(t, conn.Wallet)
	assert.Equal(t, Amount(12.5), conn.Wallet.Balance)
	assert.Equal(t, "user@example.com", conn.Wallet.Email)
}

func TestRetrieveConnectionNumericBalance(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(
			`{"connection_id":"cn_123","wallet":{"balance":7.25,"email":"a@b.c"}}`))
	}))

	conn, err := client.RetrieveConnection(context.Background(), "cn_123")
	require.NoError(t, err)
	assert.Equal(t, Amount(7.25), conn.Wallet.Balance)
}

func TestRetrieveConnectionNotFound(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"No such connection"}}`))
	}))

	_, err := client.RetrieveConnection(context.Background(), "cn_missing")
	assert.ErrorIs(t, err, domain.ErrConnectionNotFound)
}

func TestRetrieveConnectionUpstreamError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"gateway exploded"}}`))
	}))

	_, err := client.RetrieveConnection(context.Background(), "cn_123")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "gateway exploded")
}

func TestRetrieveConnectionEmptyID(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.RetrieveConnection(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateCheckoutSessionOnboarding(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout-sessions", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "onboarding", body["checkout_mode"])
		assert.Equal(t, "http://localhost:3000", body["origin_url"])
		assert.NotContains(t, body, "connection_id")

		_, _ = w.Write([]byte(
			`{"checkout_session_id":"cks_1","checkout_session_token":"tok_abc"}`))
	}))

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		Mode:      CheckoutModeOnboarding,
		OriginURL: "http://localhost:3000",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_abc", session.Token)
}

func TestCreateCheckoutSessionTopup(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "topup", body["checkout_mode"])
		assert.Equal(t, "cn_123", body["connection_id"])

		_, _ = w.Write([]byte(
			`{"checkout_session_id":"cks_2","checkout_session_token":"tok_topup"}`))
	}))

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		Mode:         CheckoutModeTopup,
		OriginURL:    "http://localhost:3000",
		ConnectionID: "cn_123",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_topup", session.Token)
}

func TestCreateCheckoutSessionTopupRequiresConnection(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		Mode:      CheckoutModeTopup,
		OriginURL: "http://localhost:3000",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateForwardToken(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("token issuance must not hit the network")
	}))

	token, err := client.GenerateForwardToken("cs_secret")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "fwd-"))

	// Deterministic per inputs.
	again, err := client.GenerateForwardToken("cs_secret")
	require.NoError(t, err)
	assert.Equal(t, token, again)

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(token, "fwd-"))
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "cs_secret", decoded["connection_secret"])
	assert.Equal(t, "ps_test_456", decoded["product_secret"])
}

func TestGenerateForwardTokenEmptySecret(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))

	_, err := client.GenerateForwardToken("")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAmountUnmarshal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    Amount
		wantErr bool
	}{
		{"decimal string", `"12.50"`, 12.5, false},
		{"number", `8.75`, 8.75, false},
		{"integer string", `"3"`, 3, false},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"garbage", `"abc"`, 0, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var a Amount
			err := json.Unmarshal([]byte(tt.input), &a)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}
