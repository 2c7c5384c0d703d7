// Package hevy talks to the Hevy workout API and normalizes its
// payloads into typed workout records.
package hevy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/solstice035/health-analytics/internal/logging"
)

const (
	defaultBaseURL = "https://api.hevyapp.com"
	pageSize       = 10
)

// Default retry settings
const (
	defaultMaxRetries       = 5
	defaultInitialBackoff   = 1 * time.Second
	defaultMaxBackoff       = 2 * time.Minute
	defaultRateLimitBackoff = 60 * time.Second
)

// ErrMissingAPIKey indicates the client was built without credentials.
var ErrMissingAPIKey = fmt.Errorf("hevy api key not configured")

// ErrUnauthorized indicates the API rejected the configured key.
var ErrUnauthorized = fmt.Errorf("hevy api key rejected")

// ErrRateLimited indicates the API returned 429 after retries were exhausted.
var ErrRateLimited = fmt.Errorf("rate limited")

// Template describes an exercise template from the Hevy catalog. The
// primary muscle group drives muscle-group attribution for sets logged
// against the template.
type Template struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Type                  string   `json:"type"`
	PrimaryMuscleGroup    string   `json:"primary_muscle_group"`
	SecondaryMuscleGroups []string `json:"secondary_muscle_groups"`
	IsCustom              bool     `json:"is_custom"`
}

type workoutsPage struct {
	Page      int               `json:"page"`
	PageCount int               `json:"page_count"`
	Workouts  []json.RawMessage `json:"workouts"`
}

type templatesPage struct {
	Page      int        `json:"page"`
	PageCount int        `json:"page_count"`
	Templates []Template `json:"exercise_templates"`
}

// Client is a Hevy API client with automatic retry and backoff.
type Client struct {
	httpClient *retryablehttp.Client
	apiKey     string
	baseURL    string
}

// RetryConfig holds retry/backoff settings
type RetryConfig struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: defaultMaxRetries,
		MinWait:    defaultInitialBackoff,
		MaxWait:    defaultMaxBackoff,
	}
}

// NewClient creates a new Hevy API client with automatic retry
func NewClient(apiKey string) *Client {
	return newClientWithConfig(apiKey, defaultBaseURL, DefaultRetryConfig())
}

// NewClientWithBaseURL creates a client pointed at a custom base URL (for testing)
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return newClientWithConfig(apiKey, baseURL, DefaultRetryConfig())
}

// NewClientWithRetryConfig creates a client with custom retry settings
func NewClientWithRetryConfig(apiKey, baseURL string, cfg RetryConfig) *Client {
	return newClientWithConfig(apiKey, baseURL, cfg)
}

func newClientWithConfig(apiKey, baseURL string, cfg RetryConfig) *Client {
	log := logging.Logger
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = cfg.MinWait
	client.RetryWaitMax = cfg.MaxWait
	client.Logger = &logging.LeveledLogger{}

	// Custom retry policy: retry on 429 and 5xx, never on auth failures
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		// Don't retry on context errors
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		// Retry on connection errors
		if err != nil {
			return true, nil
		}

		// A rejected key never succeeds on retry
		if resp.StatusCode == http.StatusUnauthorized {
			return false, nil
		}

		if resp.StatusCode == http.StatusNotFound {
			return false, nil
		}

		// Retry on 429 Too Many Requests (rate limited)
		if resp.StatusCode == http.StatusTooManyRequests {
			return true, nil
		}

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 {
			return true, nil
		}

		return false, nil
	}

	// Custom backoff honoring Retry-After on rate limit responses
	client.Backoff = func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			wait := defaultRateLimitBackoff
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					wait = time.Duration(seconds) * time.Second
				}
			}
			log.Info().
				Dur("wait", wait).
				Int("attempt", attemptNum).
				Msg("rate limited, waiting before retry")
			return wait
		}

		// Exponential backoff for 5xx and connection errors
		wait := min * time.Duration(1<<uint(attemptNum))
		if wait > max {
			wait = max
		}
		log.Info().
			Dur("wait", wait).
			Int("attempt", attemptNum).
			Dur("max_wait", max).
			Msg("backing off before retry")
		return wait
	}

	// Hook to log requests
	client.RequestLogHook = func(logger retryablehttp.Logger, req *http.Request, retry int) {
		if retry > 0 {
			log.Info().
				Str("url", req.URL.Path).
				Int("attempt", retry+1).
				Msg("retrying request")
		}

		// Log request headers at trace level (-vv)
		if logging.IsTraceEnabled() {
			log.Debug().
				Str("method", req.Method).
				Str("url", req.URL.String()).
				Str("headers", formatHeaders(req.Header)).
				Msg("request headers")
		}
	}

	// Hook to log responses
	client.ResponseLogHook = func(logger retryablehttp.Logger, resp *http.Response) {
		if logging.IsTraceEnabled() {
			log.Debug().
				Int("status", resp.StatusCode).
				Str("url", resp.Request.URL.Path).
				Str("headers", formatHeaders(resp.Header)).
				Msg("response headers")
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			log.Warn().
				Int("status", resp.StatusCode).
				Str("url", resp.Request.URL.Path).
				Str("retry_after", resp.Header.Get("Retry-After")).
				Msg("rate limited by API")
		}
	}

	return &Client{
		httpClient: client,
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// WithRetryConfig sets custom retry configuration (useful for testing)
func (c *Client) WithRetryConfig(maxRetries int, initialBackoff, maxBackoff time.Duration) *Client {
	c.httpClient.RetryMax = maxRetries
	c.httpClient.RetryWaitMin = initialBackoff
	c.httpClient.RetryWaitMax = maxBackoff
	return c
}

// ProgressCallback is called after each page is fetched
type ProgressCallback func(page, pageCount, totalFetched int)

// FetchWorkouts fetches every workout page, newest first as the API
// returns them. Payloads stay raw so field-name drift between API
// versions is handled at parse time.
func (c *Client) FetchWorkouts(ctx context.Context, progress ProgressCallback) ([]json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var all []json.RawMessage
	page := 1
	for {
		var body workoutsPage
		if err := c.getJSON(ctx, fmt.Sprintf("/v1/workouts?page=%d&pageSize=%d", page, pageSize), &body); err != nil {
			return all, err
		}

		all = append(all, body.Workouts...)
		if progress != nil {
			progress(page, body.PageCount, len(all))
		}

		if len(body.Workouts) == 0 || (body.PageCount > 0 && page >= body.PageCount) {
			break
		}
		page++
	}
	return all, nil
}

// FetchWorkoutCount returns the total workout count for the account.
func (c *Client) FetchWorkoutCount(ctx context.Context) (int, error) {
	if c.apiKey == "" {
		return 0, ErrMissingAPIKey
	}
	var body struct {
		WorkoutCount int `json:"workout_count"`
	}
	if err := c.getJSON(ctx, "/v1/workouts/count", &body); err != nil {
		return 0, err
	}
	return body.WorkoutCount, nil
}

// FetchExerciseTemplates fetches the exercise template catalog keyed
// by template ID.
func (c *Client) FetchExerciseTemplates(ctx context.Context) (map[string]Template, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	templates := make(map[string]Template)
	page := 1
	for {
		var body templatesPage
		if err := c.getJSON(ctx, fmt.Sprintf("/v1/exercise_templates?page=%d&pageSize=%d", page, pageSize), &body); err != nil {
			return templates, err
		}

		for _, tpl := range body.Templates {
			if tpl.PrimaryMuscleGroup == "" {
				tpl.PrimaryMuscleGroup = "other"
			}
			templates[tpl.ID] = tpl
		}

		if len(body.Templates) == 0 || (body.PageCount > 0 && page >= body.PageCount) {
			break
		}
		page++
	}
	return templates, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		// Retries exhausted
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// formatHeaders formats HTTP headers for logging, redacting sensitive values
func formatHeaders(headers http.Header) string {
	if len(headers) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("{")
	first := true
	for _, k := range keys {
		if !first {
			sb.WriteString(", ")
		}
		first = false

		value := strings.Join(headers[k], ", ")
		lowerKey := strings.ToLower(k)
		if lowerKey == "api-key" || lowerKey == "authorization" || lowerKey == "cookie" || lowerKey == "set-cookie" {
			value = "[REDACTED]"
		}

		sb.WriteString(fmt.Sprintf("%s: %q", k, value))
	}
	sb.WriteString("}")
	return sb.String()
}
