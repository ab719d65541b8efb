package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	mu      sync.Mutex
	queue   []fakeResponse
	models  []string
	prompts []string
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.models = append(f.models, model)
	for _, content := range contents {
		for _, part := range content.Parts {
			f.prompts = append(f.prompts, part.Text)
		}
	}

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func (f *fakeModels) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.models)
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	original := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { sleep = original })
	return &delays
}

func TestGeneratorJoinsTextParts(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse(" first ", "", "second"), nil)

	g := newGenerator(models, Options{}, zap.NewNop())

	output, err := g.GenerateContent(context.Background(), "  prompt  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "first\nsecond" {
		t.Fatalf("unexpected output: %q", output)
	}
	if models.models[0] != DefaultModel {
		t.Fatalf("expected default model, got %q", models.models[0])
	}
	if models.prompts[0] != "prompt" {
		t.Fatalf("expected trimmed prompt, got %q", models.prompts[0])
	}
	if g.Model() != DefaultModel {
		t.Fatalf("unexpected model name: %s", g.Model())
	}
}

func TestGeneratorRejectsEmptyPrompt(t *testing.T) {
	models := &fakeModels{}
	g := newGenerator(models, Options{}, nil)

	if _, err := g.GenerateContent(context.Background(), " \n"); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if models.calls() != 0 {
		t.Fatalf("expected no api calls, got %d", models.calls())
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse("  "), nil)

	g := newGenerator(models, Options{MaxRetries: 1}, nil)

	if _, err := g.GenerateContent(context.Background(), "prompt"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	delays := noSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(nil, genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"})
	models.enqueue(textResponse("retry ok"), nil)

	g := newGenerator(models, Options{Model: "gemini-pro", MaxRetries: 3}, zap.NewNop())

	output, err := g.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if models.calls() != 3 {
		t.Fatalf("expected 3 calls, got %d", models.calls())
	}
	if len(*delays) != 2 || (*delays)[0] != baseBackoff || (*delays)[1] != 2*baseBackoff {
		t.Fatalf("unexpected backoff delays: %v", *delays)
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	g := newGenerator(models, Options{MaxRetries: 2}, zap.NewNop())

	_, err := g.GenerateContent(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if models.calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls())
	}
}

func TestGeneratorDoesNotRetryOnClientError(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newGenerator(models, Options{MaxRetries: 3}, nil)

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if models.calls() != 1 {
		t.Fatalf("expected single call, got %d", models.calls())
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	g := newGenerator(models, Options{MaxRetries: 3}, zap.NewNop())

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if models.calls() != 1 {
		t.Fatalf("expected single call, got %d", models.calls())
	}
}

func TestGeneratorHonoursShortQuotaDelay(t *testing.T) {
	delays := noSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Message: "Please retry in 5.5s.",
	})
	models.enqueue(textResponse("ok"), nil)

	g := newGenerator(models, Options{MaxRetries: 2}, nil)

	if _, err := g.GenerateContent(context.Background(), "prompt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*delays) != 1 || (*delays)[0] != 5500*time.Millisecond {
		t.Fatalf("unexpected delays: %v", *delays)
	}
}

func TestGeneratorStopsWhenContextCancelledDuringBackoff(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadGateway})

	g := newGenerator(models, Options{MaxRetries: 3}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.GenerateContent(ctx, "prompt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if models.calls() != 1 {
		t.Fatalf("expected single call, got %d", models.calls())
	}
}

func TestGeneratorCircuitBreakerOpens(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, errors.New("boom"))
	models.enqueue(nil, errors.New("boom"))

	g := newGenerator(models, Options{
		MaxRetries: 1,
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Timeout:          time.Minute,
			MinRequests:      2,
			FailureThreshold: 0.5,
		},
	}, zap.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
			t.Fatalf("expected error on call %d", i)
		}
	}

	_, err := g.GenerateContent(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected open breaker error")
	}
	if models.calls() != 2 {
		t.Fatalf("expected breaker to short-circuit the third call, got %d calls", models.calls())
	}
}

func TestRetryDelay(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		retry bool
	}{
		{name: "plain error", err: errors.New("boom"), retry: false},
		{name: "server error", err: genai.APIError{Code: http.StatusInternalServerError}, retry: true},
		{name: "gateway timeout pointer", err: &genai.APIError{Code: http.StatusGatewayTimeout}, retry: true},
		{name: "quota without hint", err: genai.APIError{Code: http.StatusTooManyRequests}, retry: true},
		{name: "forbidden", err: genai.APIError{Code: http.StatusForbidden}, retry: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, retry := retryDelay(tc.err, 1); retry != tc.retry {
				t.Fatalf("expected retry=%v", tc.retry)
			}
		})
	}
}
