// Package testutils provides a test suite running the full Fiber app against
// stub payments and model upstreams.
package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/amirasaad/walletchat/app"
	"github.com/amirasaad/walletchat/pkg/config"
	"github.com/amirasaad/walletchat/pkg/domain"
	"github.com/amirasaad/walletchat/pkg/lava"
	"github.com/amirasaad/walletchat/pkg/provider/openai"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

// ConnectionFixture is a wallet connection served by the payments stub.
// Balance is the raw JSON for the balance field, e.g. `"12.50"` or `7`.
type ConnectionFixture struct {
	Secret  string
	Balance string
	Email   string
}

// AppSuite builds the full app with httptest servers standing in for the
// payments service and the model API.
type AppSuite struct {
	suite.Suite
	App *fiber.App

	// Payments stub state, reset per test.
	Connections   map[string]ConnectionFixture
	CheckoutToken string
	CheckoutFail  bool
	LastCheckout  map[string]any

	// ModelHandler overrides the default model stub for a single test.
	ModelHandler http.HandlerFunc

	payments *httptest.Server
	model    *httptest.Server
}

// SetupTest starts fresh upstream stubs and rebuilds the app.
func (s *AppSuite) SetupTest() {
	s.Connections = map[string]ConnectionFixture{}
	s.CheckoutToken = "tok_test"
	s.CheckoutFail = false
	s.LastCheckout = nil
	s.ModelHandler = nil

	s.payments = httptest.NewServer(http.HandlerFunc(s.handlePayments))
	s.model = httptest.NewServer(http.HandlerFunc(s.handleModel))

	cfg := &config.App{
		Env:       "test",
		Server:    &config.Server{},
		Log:       &config.Log{},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Second},
		Lava: &config.Lava{
			SecretKey:     "sk_test",
			ProductSecret: "ps_test",
			ApiVersion:    "2025-03-27.v1",
			ApiUrl:        s.payments.URL,
			OriginUrl:     "http://localhost:3000",
		},
		Chat: &config.Chat{Model: "gpt-4o-mini"},
	}

	logger := slog.Default()
	lavaClient := lava.NewClient(cfg.Lava, logger)
	completions := openai.NewClient(s.model.URL, logger)
	s.App = app.New(app.Deps{
		Lava:        lavaClient,
		Completions: completions,
		Logger:      logger,
		Config:      cfg,
	})
}

// TearDownTest stops the upstream stubs.
func (s *AppSuite) TearDownTest() {
	s.payments.Close()
	s.model.Close()
}

// MakeRequest runs one request through the app and returns the response.
func (s *AppSuite) MakeRequest(method, target, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// ReadBody drains and returns the response body.
func (s *AppSuite) ReadBody(resp *http.Response) string {
	defer resp.Body.Close() //nolint:errcheck
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return string(raw)
}

// DecodeBody decodes the JSON response body into a map.
func (s *AppSuite) DecodeBody(resp *http.Response) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal([]byte(s.ReadBody(resp)), &body))
	return body
}

func (s *AppSuite) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/connections/"):
		id := strings.TrimPrefix(r.URL.Path, "/connections/")
		fixture, ok := s.Connections[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"No such connection"}}`))
			return
		}
		_, _ = fmt.Fprintf(w,
			`{"connection_id":%q,"connection_secret":%q,"wallet":{"balance":%s,"email":%q}}`,
			id, fixture.Secret, fixture.Balance, fixture.Email)
	case r.Method == http.MethodPost && r.URL.Path == "/checkout-sessions":
		if s.CheckoutFail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"checkout unavailable"}}`))
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.LastCheckout = body
		_, _ = fmt.Fprintf(w,
			`{"checkout_session_id":"cks_test","checkout_session_token":%q}`, s.CheckoutToken)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"unknown endpoint"}}`))
	}
}

// handleModel answers "Hello world", streamed or buffered to match the
// request, unless the test installed its own handler.
func (s *AppSuite) handleModel(w http.ResponseWriter, r *http.Request) {
	if s.ModelHandler != nil {
		s.ModelHandler(w, r)
		return
	}

	var body struct {
		Stream   bool             `json:"stream"`
		Messages []domain.Message `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.Stream {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range []string{"Hello", " world"} {
			_, _ = fmt.Fprintf(w,
				"data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
		return
	}
	_, _ = w.Write([]byte(
		`{"choices":[{"message":{"role":"assistant","content":"Hello world"}}]}`))
}
