package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/config"
	"google.golang.org/genai"
)

const maxEmbeddingInput = 10000

type GeminiServiceInterface interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiService struct {
	Client         *genai.Client
	Model          string
	Dimensions     int32
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration

	// CircuitCooldown is how long the breaker stays open before one trial
	// request is let through.
	CircuitCooldown time.Duration

	mu                sync.Mutex
	consecutiveErrors int
	circuitBreakerMax int
	openUntil         time.Time
	trialInFlight     bool
	now               func() time.Time
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	cfg := config.LoadGeminiConfig()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiService{
		Client:            client,
		Model:             cfg.EmbeddingModel,
		Dimensions:        int32(cfg.EmbeddingDim),
		MaxRetries:        3,
		BaseDelay:         time.Second,
		MaxDelay:          30 * time.Second,
		RequestTimeout:    60 * time.Second,
		CircuitCooldown:   time.Minute,
		circuitBreakerMax: 5,
		now:               time.Now,
	}, nil
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if len(trimmed) > maxEmbeddingInput {
		slog.Warn("embedding input truncated", slog.Int("length", len(trimmed)))
		trimmed = truncate(trimmed, maxEmbeddingInput)
	}

	if !s.allow() {
		errs, _ := s.CircuitBreakerStatus()
		return nil, fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", errs)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}
	cfg := &genai.EmbedContentConfig{OutputDimensionality: genai.Ptr(s.Dimensions)}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			slog.Info("retrying embedding request",
				slog.Int("attempt", attempt), slog.Int("max_retries", s.MaxRetries), slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return nil, fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		result, err := s.Client.Models.EmbedContent(timeoutCtx, s.Model, content, cfg)
		if err == nil {
			s.recordSuccess()
			return validateEmbeddingResponse(result)
		}

		lastErr = err
		if !isRetryableError(err) {
			if isClientError(err) {
				// the API answered; the request itself was bad
				s.recordSuccess()
			} else {
				s.recordFailure()
			}
			return nil, fmt.Errorf("generate embedding failed: %w", err)
		}
		slog.Warn("retryable embedding error", slog.Int("attempt", attempt+1), slog.Any("error", err))
	}

	s.recordFailure()
	return nil, fmt.Errorf("max retries (%d) exceeded for GenerateEmbedding: %w", s.MaxRetries, lastErr)
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	return delay
}

func (s *GeminiService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// allow reports whether a request may go out. After the cooldown the breaker
// is half-open and admits a single trial until its outcome is recorded.
func (s *GeminiService) allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consecutiveErrors < s.circuitBreakerMax {
		return true
	}
	if s.clock().Before(s.openUntil) || s.trialInFlight {
		return false
	}
	s.trialInFlight = true
	return true
}

func (s *GeminiService) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consecutiveErrors >= s.circuitBreakerMax {
		slog.Info("embedding circuit breaker closed")
	}
	s.consecutiveErrors = 0
	s.trialInFlight = false
}

func (s *GeminiService) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consecutiveErrors++
	s.trialInFlight = false
	if s.consecutiveErrors >= s.circuitBreakerMax {
		s.openUntil = s.clock().Add(s.CircuitCooldown)
		slog.Warn("embedding circuit breaker open",
			slog.Int("consecutive_errors", s.consecutiveErrors), slog.Time("until", s.openUntil))
	}
}

// CircuitBreakerStatus reports isOpen while requests are being refused.
func (s *GeminiService) CircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	open := s.consecutiveErrors >= s.circuitBreakerMax && (s.clock().Before(s.openUntil) || s.trialInFlight)
	return s.consecutiveErrors, open
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if code, ok := apiStatus(err); ok {
		switch code {
		case 429, 500, 502, 503, 504:
			return true
		default:
			return false
		}
	}

	msg := err.Error()
	for _, transient := range []string{"connection refused", "connection reset", "timeout", "temporary failure", "EOF", "RESOURCE_EXHAUSTED", "UNAVAILABLE"} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}

// apiStatus returns the HTTP status of a genai API error. The SDK returns
// APIError by value.
func apiStatus(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

// isClientError is a 4xx other than rate limiting.
func isClientError(err error) bool {
	code, ok := apiStatus(err)
	return ok && code >= 400 && code < 500 && code != 429
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embeddings returned")
	}
	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, v)
		}
	}
	return values, nil
}
