package chat_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/walletchat/pkg/config"
	"github.com/amirasaad/walletchat/pkg/domain"
	"github.com/amirasaad/walletchat/pkg/lava"
	"github.com/amirasaad/walletchat/pkg/provider/openai"
	chatsvc "github.com/amirasaad/walletchat/pkg/service/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/connections/cn_live"):
			_, _ = w.Write([]byte(
				`{"connection_id":"cn_live","connection_secret":"cs_live",` +
					`"wallet":{"balance":"20.00","email":"user@example.com"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"No such connection"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newService(t *testing.T, modelHandler http.HandlerFunc) *chatsvc.Service {
	t.Helper()
	payments := newPaymentsServer(t)
	model := httptest.NewServer(modelHandler)
	t.Cleanup(model.Close)

	logger := slog.Default()
	lavaClient := lava.NewClient(&config.Lava{
		SecretKey:     "sk_test",
		ProductSecret: "ps_test",
		ApiVersion:    "2025-03-27.v1",
		ApiUrl:        payments.URL,
	}, logger)
	completions := openai.NewClient(model.URL, logger)
	return chatsvc.New(lavaClient, completions, &config.Chat{Model: "gpt-4o-mini"}, logger)
}

func TestComplete(t *testing.T) {
	t.Parallel()
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		// The forward token derived from the server-side secret must arrive
		// as the bearer credential.
		auth := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "Bearer fwd-"), "got %q", auth)
		_, _ = w.Write([]byte(
			`{"choices":[{"message":{"role":"assistant","content":"42"}}]}`))
	})

	text, err := svc.Complete(context.Background(), "cn_live",
		[]domain.Message{{Role: "user", Content: "meaning of life?"}})
	require.NoError(t, err)
	assert.Equal(t, "42", text)
}

func TestCompleteUnknownConnection(t *testing.T) {
	t.Parallel()
	svc := newService(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("model API must not be called for an unknown connection")
	})

	_, err := svc.Complete(context.Background(), "cn_missing",
		[]domain.Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, domain.ErrConnectionNotFound)
}

func TestStream(t *testing.T) {
	t.Parallel()
	svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"str"}}]}`+"\n\n")
		_, _ = fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"eam"}}]}`+"\n\n")
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var got string
	err := svc.Stream(context.Background(), "cn_live",
		[]domain.Message{{Role: "user", Content: "hi"}},
		func(delta string) error {
			got += delta
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, "stream", got)
}

func TestStreamSurvivesCanceledRequestContext(t *testing.T) {
	t.Parallel()
	done := make(chan struct{})
	svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		defer close(done)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"x"}}]}`+"\n\n")
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})

	// Token resolution happens before cancellation; the upstream call itself
	// must be detached from the inbound context.
	ctx, cancel := context.WithCancel(context.Background())
	var got string
	err := svc.Stream(ctx, "cn_live",
		[]domain.Message{{Role: "user", Content: "hi"}},
		func(delta string) error {
			cancel()
			got += delta
			return nil
		})
	<-done
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}
