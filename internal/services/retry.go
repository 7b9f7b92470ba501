package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songmatch/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 500 * time.Millisecond
)

// requester performs rate limited JSON requests with retry on 429 and 5xx.
type requester struct {
	service     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
	logger      *log.Logger
}

func newRequester(service string, o clientOptions) *requester {
	var limiter *rate.Limiter
	if o.rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.rateLimit), 1)
	}

	maxRetries := o.maxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &requester{
		service:     service,
		httpClient:  o.httpClient,
		limiter:     limiter,
		maxRetries:  maxRetries,
		baseBackoff: o.baseBackoff,
		logger:      o.logger,
	}
}

// getJSON issues a GET to apiURL and decodes a 2xx body into result.
func (r *requester) getJSON(ctx context.Context, apiURL string, headers map[string]string, result any) error {
	resp, err := r.do(ctx, apiURL, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(r.service, resp); err != nil {
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrAPIRequest, r.service, err)
		}
	}
	return nil
}

func (r *requester) do(ctx context.Context, apiURL string, headers map[string]string) (*http.Response, error) {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%s: request canceled: %w", r.service, err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := r.httpClient.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			if err != nil {
				return nil, fmt.Errorf("%w: %s request failed: %v", shared.ErrAPIRequest, r.service, err)
			}
			return resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: request canceled: %w", r.service, ctxErr)
		}

		attemptNum := attempt + 1
		if err != nil {
			r.logger.Warn("retrying request", "service", r.service, "attempt", attemptNum, "max", r.maxRetries, "err", err)
		} else {
			r.logger.Warn("retrying request", "service", r.service, "attempt", attemptNum, "max", r.maxRetries, "status", resp.StatusCode)
			resp.Body.Close()
		}

		if attemptNum == r.maxRetries {
			if err != nil {
				return nil, fmt.Errorf("%w: %s request failed after %d attempts: %v", shared.ErrAPIRequest, r.service, r.maxRetries, err)
			}
			return nil, fmt.Errorf("%w: %s request failed after %d attempts: status %d", shared.ErrAPIRequest, r.service, r.maxRetries, resp.StatusCode)
		}

		backoff := r.baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, fmt.Errorf("%s: request canceled: %w", r.service, err)
		}
	}

	return nil, fmt.Errorf("%w: %s request failed after %d attempts", shared.ErrAPIRequest, r.service, r.maxRetries)
}

// checkStatus maps non-2xx responses onto the shared error kinds.
func checkStatus(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp struct {
		Detail string `json:"detail"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	detail := ""
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		detail = errResp.Detail
		if detail == "" {
			detail = errResp.Error.Message
		}
	}

	kind := shared.ErrAPIRequest
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = shared.ErrNotAuthenticated
	case http.StatusNotFound:
		kind = shared.ErrResourceNotFound
	}

	if detail != "" {
		return fmt.Errorf("%w: %s API error (status %d): %s", kind, service, resp.StatusCode, detail)
	}
	return fmt.Errorf("%w: %s API error: status %d", kind, service, resp.StatusCode)
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}

	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
