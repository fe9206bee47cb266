// Package slack is the paginated fetch client for the Slack Web API:
// form-encoded method calls, retry with backoff for transient
// failures, Retry-After honoring for rate limits, and lazy cursor
// pagination. Callers never see cursors beyond presence/absence.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/SZRabinowitz/slackscope/pkg/logger"
)

const (
	// maxAttempts bounds 5xx/transport retries. Rate-limit waits are
	// deliberately uncapped: a 429 is expected and self-resolving,
	// a persistent 5xx usually is not.
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond

	// A browser user agent keeps session-cookie auth working.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36"
)

// Options configures a Client. BaseURL points at the workspace API
// root, e.g. "https://acme.slack.com/api".
type Options struct {
	BaseURL string
	Token   string
	DCookie string
	Timeout time.Duration
}

type Client struct {
	httpc   *http.Client
	base    string
	token   string
	dCookie string
	limiter *rate.Limiter
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		httpc:   &http.Client{Timeout: timeout},
		base:    strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		dCookie: opts.DCookie,
		// Client-side pacing ahead of server rate limits: small bursts,
		// steady 5 req/s.
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

// Call invokes one Web API method and decodes the response into out
// (when non-nil) after envelope validation. The returned Envelope
// carries the next pagination cursor, if any.
func (c *Client) Call(ctx context.Context, method string, params url.Values, out any) (*Envelope, error) {
	form := url.Values{}
	for k, vs := range params {
		form[k] = vs
	}
	if form.Get("token") == "" {
		form.Set("token", c.token)
	}
	body := form.Encode()

	attempts := 0
	backoff := initialBackoff
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+method, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Cookie", "d="+c.dCookie)

		resp, err := c.httpc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			attempts++
			if attempts >= maxAttempts {
				return nil, &TransientError{Method: method, Attempts: attempts, Err: err}
			}
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			// Not an error: wait exactly what the server asked for and
			// retry. Does not consume the transient-attempt budget.
			wait := retryAfter(resp)
			logger.Log.Debug("rate limited", "method", method, "wait", wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			continue
		case resp.StatusCode >= 500:
			attempts++
			if attempts >= maxAttempts {
				return nil, &TransientError{
					Method:   method,
					Attempts: attempts,
					Err:      fmt.Errorf("server status %d", resp.StatusCode),
				}
			}
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		case resp.StatusCode >= 400:
			return nil, &APIError{Method: method, Status: resp.StatusCode}
		}

		if readErr != nil {
			attempts++
			if attempts >= maxAttempts {
				return nil, &TransientError{Method: method, Attempts: attempts, Err: readErr}
			}
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("invalid JSON from %s: %w", method, err)
		}
		if !env.OK {
			code := env.Error
			if code == "" {
				code = "unknown_error"
			}
			return nil, &APIError{Method: method, Code: code}
		}
		if out != nil {
			if err := json.Unmarshal(data, out); err != nil {
				return nil, fmt.Errorf("unexpected payload from %s: %w", method, err)
			}
		}
		return &env, nil
	}
}

// APIURL resolves method/path input for raw passthrough calls into a
// full URL.
func (c *Client) APIURL(endpoint string) (string, error) {
	raw := strings.TrimSpace(endpoint)
	if raw == "" {
		return "", fmt.Errorf("API endpoint cannot be empty")
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw, nil
	}
	normalized := strings.TrimLeft(raw, "/")
	normalized = strings.TrimPrefix(normalized, "api/")
	if normalized == "" {
		return "", fmt.Errorf("API endpoint cannot be empty")
	}
	return c.base + "/" + normalized, nil
}

// CallRaw performs a passthrough request and returns the raw body
// without envelope validation. Shares the retry and rate-limit
// behavior of Call.
func (c *Client) CallRaw(ctx context.Context, endpoint, httpMethod string, params url.Values) (string, error) {
	method := strings.ToUpper(strings.TrimSpace(httpMethod))
	if method == "" {
		method = http.MethodPost
	}
	target, err := c.APIURL(endpoint)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	for k, vs := range params {
		form[k] = vs
	}
	if form.Get("token") == "" {
		form.Set("token", c.token)
	}

	attempts := 0
	backoff := initialBackoff
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
		var req *http.Request
		if method == http.MethodGet {
			req, err = http.NewRequestWithContext(ctx, method, target+"?"+form.Encode(), nil)
		} else {
			req, err = http.NewRequestWithContext(ctx, method, target, strings.NewReader(form.Encode()))
			if req != nil {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
		}
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Cookie", "d="+c.dCookie)

		resp, err := c.httpc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			attempts++
			if attempts >= maxAttempts {
				return "", &TransientError{Method: endpoint, Attempts: attempts, Err: err}
			}
			if err := sleepCtx(ctx, backoff); err != nil {
				return "", err
			}
			backoff *= 2
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp)
			if err := sleepCtx(ctx, wait); err != nil {
				return "", err
			}
			continue
		case resp.StatusCode >= 500:
			attempts++
			if attempts >= maxAttempts {
				return "", &TransientError{
					Method:   endpoint,
					Attempts: attempts,
					Err:      fmt.Errorf("server status %d", resp.StatusCode),
				}
			}
			if err := sleepCtx(ctx, backoff); err != nil {
				return "", err
			}
			backoff *= 2
			continue
		}
		if readErr != nil {
			return "", readErr
		}
		return string(data), nil
	}
}

func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

// sleepCtx blocks for d or until ctx is done. Only the calling
// operation is suspended.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FmtTs renders an epoch-seconds bound the way the API expects.
func FmtTs(ts float64) string {
	return strconv.FormatFloat(ts, 'f', 6, 64)
}
