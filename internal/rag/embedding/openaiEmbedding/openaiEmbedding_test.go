package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/rag/embedding"
	"github.com/rvaldezc/muniRAG/pkg/logger_i"
)

func newTestClient(t *testing.T, baseURL string, throttle *embedding.Throttle) *client {
	t.Helper()
	logger = logger_i.NewLogger("openai_embedding_test")
	return &client{
		openAi: openai.NewClient(
			option.WithAPIKey("test-key"),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
		model:    "text-embedding-3-small",
		throttle: throttle,
	}
}

func writeEmbeddingResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.25,0.5]}],"model":"text-embedding-3-small","usage":{"prompt_tokens":1,"total_tokens":1}}`)
}

func TestIsRetryableClassifiesFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &openai.Error{StatusCode: 429}, true},
		{"server error", &openai.Error{StatusCode: 500}, true},
		{"bad request", &openai.Error{StatusCode: 400}, false},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryable(tc.err); got != tc.want {
				t.Errorf("isRetryable got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEmbedDoesNotRetryBadRequests(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"invalid model","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, embedding.NewThrottle(time.Millisecond))

	if _, err := c.embed(context.Background(), "texto"); err == nil {
		t.Fatal("A rejected request must surface its error")
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("Bad request hit the API %d times, want exactly 1", got)
	}
}

func TestEmbedRetriesRateLimitBehindThrottle(t *testing.T) {
	if testing.Short() {
		t.Skip("retry test waits out the full retry backoff")
	}

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_exceeded"}}`)
			return
		}
		writeEmbeddingResponse(w)
	}))
	defer server.Close()

	throttle := embedding.NewThrottle(10 * time.Millisecond)
	c := newTestClient(t, server.URL, throttle)

	start := time.Now()
	vector, err := c.embed(context.Background(), "texto")
	if err != nil {
		t.Fatalf("embed failed after retries: %v", err)
	}
	if len(vector) != 2 || vector[0] != 0.25 {
		t.Errorf("Vector got %v, want the server's embedding", vector)
	}
	if got := atomic.LoadInt32(&requests); got != 3 {
		t.Errorf("API hit %d times, want 3 (two rate limits then success)", got)
	}
	// both retries must have sat out the backoff before re-entering the throttle
	if elapsed := time.Since(start); elapsed < 2*config.EmbeddingRetryBackoff {
		t.Errorf("Retries took %v, want at least %v of backoff", elapsed, 2*config.EmbeddingRetryBackoff)
	}
}

func TestEmbedStopsWhenContextCancelledDuringBackoff(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_exceeded"}}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, embedding.NewThrottle(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	if _, err := c.embed(ctx, "texto"); !errors.Is(err, context.Canceled) {
		t.Errorf("Cancellation during backoff got %v, want context.Canceled", err)
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("API hit %d times after cancellation, want 1", got)
	}
}
