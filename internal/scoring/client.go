// Package scoring calls the external loan-approval prediction endpoint.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/logging"
)

var (
	// ErrRemote marks transport failures and non-2xx responses.
	ErrRemote = errors.New("failed to get prediction from the model")
	// ErrMalformed marks a 2xx response whose body is not a valid prediction.
	ErrMalformed = errors.New("malformed prediction response")
)

const maxResponseBytes = 1 << 20

// Options configures a Client.
type Options struct {
	URL        string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client posts feature payloads to the prediction endpoint. It never retries.
type Client struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a Client. A zero RatePerSec disables client-side limiting.
func NewClient(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, errors.New("scoring URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	c := &Client{
		url:    opts.URL,
		http:   httpClient,
		logger: logger,
	}
	if opts.RatePerSec > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}
	return c, nil
}

// Predict sends one feature payload and decodes the prediction.
func (c *Client) Predict(ctx context.Context, req domain.ScoringRequest) (domain.ScoringResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.ScoringResponse{}, fmt.Errorf("%w: %v", ErrRemote, err)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return domain.ScoringResponse{}, fmt.Errorf("encode scoring request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.ScoringResponse{}, fmt.Errorf("build scoring request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("scoring request failed", "error", err)
		return domain.ScoringResponse{}, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("scoring response received",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return domain.ScoringResponse{}, fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode)
	}

	return decodeResponse(io.LimitReader(resp.Body, maxResponseBytes))
}

type wireResponse struct {
	Prediction          *int     `json:"prediction"`
	ApprovalProbability *float64 `json:"approval_probability"`
}

func decodeResponse(r io.Reader) (domain.ScoringResponse, error) {
	var wire wireResponse
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return domain.ScoringResponse{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if wire.Prediction == nil || wire.ApprovalProbability == nil {
		return domain.ScoringResponse{}, fmt.Errorf("%w: prediction and approval_probability are required", ErrMalformed)
	}
	if *wire.Prediction != 0 && *wire.Prediction != 1 {
		return domain.ScoringResponse{}, fmt.Errorf("%w: prediction %d is not a binary label", ErrMalformed, *wire.Prediction)
	}
	p := *wire.ApprovalProbability
	if p < 0 || p > 1 {
		return domain.ScoringResponse{}, fmt.Errorf("%w: approval_probability %.4f outside [0,1]", ErrMalformed, p)
	}
	return domain.ScoringResponse{
		Prediction:          *wire.Prediction,
		ApprovalProbability: p,
	}, nil
}
