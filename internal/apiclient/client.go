package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"chirp/internal/config"
	"chirp/internal/metrics"
	"chirp/internal/model"
)

// TokenSource supplies the current access token for outgoing requests.
// An empty string means anonymous: no Authorization header is attached.
type TokenSource interface {
	AccessToken() string
}

// ErrUnauthorized marks a 401 response. The session layer treats it as an
// expired or invalid token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response with the server's message, when it sent
// one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api status %d", e.Status)
}

// Client talks JSON over HTTP to the micro-blog server. Every request is
// paced by the limiter and retried on 429/5xx; the bearer header comes
// from the token source on each call so a mid-flight refresh is picked up.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
	tokens      TokenSource
}

func New(cfg config.Config) *Client {
	rps := cfg.API.RPS
	if rps <= 0 {
		rps = 2.0
	}
	burst := cfg.API.Burst
	if burst <= 0 {
		burst = 10
	}
	attempts := cfg.API.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	backoff := time.Duration(cfg.API.BaseBackoffMS) * time.Millisecond
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &Client{
		baseURL:     cfg.Server.BaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
		maxAttempts: attempts,
		baseBackoff: backoff,
	}
}

// UseSession attaches the token source. Constructed separately because the
// session manager needs the client for its own auth calls.
func (c *Client) UseSession(src TokenSource) { c.tokens = src }

func (c *Client) auth(req *http.Request) {
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	req.Header.Set("Accept", "application/json")
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.auth(req)
	return req, nil
}

// do paces, sends and retries one request, recording metrics under the
// endpoint label.
func (c *Client) do(ctx context.Context, endpoint string, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := c.doWithRetry(ctx, endpoint, req)
	metrics.ObserveAPIDuration(start)
	if err != nil {
		metrics.IncAPIRequest(endpoint, "transport_error")
		return nil, err
	}
	if resp.StatusCode >= 400 {
		metrics.IncAPIRequest(endpoint, "api_error")
		defer resp.Body.Close()
		return nil, c.statusError(resp)
	}
	metrics.IncAPIRequest(endpoint, "ok")
	return resp, nil
}

func (c *Client) doWithRetry(ctx context.Context, endpoint string, req *http.Request) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.IncAPIRetry(endpoint)
		}
		r := req.Clone(ctx)
		if req.GetBody != nil {
			if b, err := req.GetBody(); err == nil {
				r.Body = b
			}
		}
		resp, err := c.httpClient.Do(r)
		if err == nil {
			if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599) {
				ra := resp.Header.Get("Retry-After")
				_ = resp.Body.Close()
				wait := backoff
				if ra != "" {
					if secs, err := strconv.Atoi(ra); err == nil {
						wait = time.Duration(secs) * time.Second
					} else if t, err := http.ParseTime(ra); err == nil {
						if d := time.Until(t); d > 0 {
							wait = d
						}
					}
				}
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				backoff *= 2
				continue
			}
			return resp, nil
		}
		lastErr = err
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxAttempts, lastErr)
}

// statusError reads the error body. The server reports messages under
// different keys depending on the endpoint.
func (c *Client) statusError(resp *http.Response) error {
	var raw struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&raw)
	msg := raw.Error
	if msg == "" {
		msg = raw.Detail
	}
	if msg == "" {
		msg = raw.Message
	}
	if resp.StatusCode == http.StatusUnauthorized {
		if msg == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// FetchHome returns one page of the main feed plus the two side lists.
func (c *Client) FetchHome(ctx context.Context, page int) (model.HomePage, error) {
	var out model.HomePage
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/home?page=%d", page), nil)
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/home", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// FetchFollowingFeed returns one page of the authenticated user's
// following feed.
func (c *Client) FetchFollowingFeed(ctx context.Context, page int) (model.FeedPage, error) {
	var out model.FeedPage
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/following-feed/?page=%d", page), nil)
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/following-feed", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// FetchTweet returns one tweet with its comment thread.
func (c *Client) FetchTweet(ctx context.Context, id int64) (model.Tweet, error) {
	var out model.Tweet
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/tweet/%d/", id), nil)
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/tweet", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// CreateTweet posts a new tweet and returns the created record.
func (c *Client) CreateTweet(ctx context.Context, text string) (model.Tweet, error) {
	var out model.Tweet
	req, err := c.newRequest(ctx, http.MethodPost, "/api/tweet/", map[string]string{"tweet": text})
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/tweet", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// EditTweet updates a tweet's text and returns the updated record.
func (c *Client) EditTweet(ctx context.Context, id int64, text string) (model.Tweet, error) {
	var out model.Tweet
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/api/tweet/%d/", id), map[string]string{"tweet": text})
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/tweet", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// ToggleLike likes or unlikes a tweet; the server decides which.
func (c *Client) ToggleLike(ctx context.Context, id int64) (model.LikeResult, error) {
	var out model.LikeResult
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/tweet/like-unlike/%d/", id), nil)
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/tweet/like-unlike", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// AddComment posts a comment on a tweet and returns the created comment.
func (c *Client) AddComment(ctx context.Context, id int64, text string) (model.Comment, error) {
	var out model.Comment
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/tweet/comment/%d/", id), map[string]string{"comment": text})
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/tweet/comment", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// FetchProfile returns a user's profile page data.
func (c *Client) FetchProfile(ctx context.Context, username string) (model.Profile, error) {
	var out model.Profile
	req, err := c.newRequest(ctx, http.MethodGet, "/api/profile/"+url.PathEscape(username)+"/", nil)
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/profile", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// ToggleFollow follows or unfollows a user; the server decides which.
func (c *Client) ToggleFollow(ctx context.Context, username string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/profile/"+url.PathEscape(username)+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, "/api/profile", req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
