// Package apiclient talks to the business administration REST API.
//
// Every request carries the current bearer token. A 401 triggers one
// refresh through POST /refresh followed by one replay of the request; a
// failed refresh clears the token and surfaces ErrUnauthorized.
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
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"bizadmin/internal/util"
	"bizadmin/internal/util/logx"
	"bizadmin/internal/version"
)

const DefaultTimeout = 10 * time.Second

type Options struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	Burst     int
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	// OnToken is called after the token changes: sign-in, refresh or clear
	// (nil token).
	OnToken func(*oauth2.Token)
}

type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	onToken func(*oauth2.Token)

	mu    sync.Mutex
	token *oauth2.Token

	// held across a whole /refresh round trip
	refreshMu sync.Mutex
}

func New(o Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(o.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", o.BaseURL)
	}
	hc := o.HTTPClient
	if hc == nil {
		timeout := o.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout,
			Transport: &http.Transport{MaxIdleConns: 20, MaxConnsPerHost: 10, IdleConnTimeout: 20 * time.Second}}
	}
	c := &Client{base: base, http: hc, onToken: o.OnToken}
	if o.RateLimit > 0 {
		burst := o.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(o.RateLimit), burst)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.base.String() }

// SetToken installs a token pair without notifying OnToken.
func (c *Client) SetToken(t *oauth2.Token) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

func (c *Client) Token() *oauth2.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) Authenticated() bool {
	t := c.Token()
	return t != nil && t.AccessToken != ""
}

// ClearToken forgets the session.
func (c *Client) ClearToken() { c.replaceToken(nil) }

func (c *Client) replaceToken(t *oauth2.Token) {
	c.mu.Lock()
	c.token = t
	cb := c.onToken
	c.mu.Unlock()
	if cb != nil {
		cb(t)
	}
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	// public requests carry no token and never refresh
	public bool
}

// do sends req and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	var payload []byte
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		payload = b
	}
	resp, err := c.send(ctx, req, payload)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && !req.public {
		used := sentToken(resp)
		resp.Body.Close()
		if err := c.refresh(ctx, used); err != nil {
			return err
		}
		if resp, err = c.send(ctx, req, payload); err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			c.ClearToken()
			return ErrUnauthorized
		}
	}
	defer resp.Body.Close()
	return decode(resp, req, out)
}

func (c *Client) send(ctx context.Context, req request, payload []byte) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + req.path
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	hr, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	hr.Header.Set("User-Agent", version.UserAgent())
	hr.Header.Set("Accept", "application/json")
	hr.Header.Set("Content-Type", "application/json")
	if !req.public {
		if t := c.Token(); t != nil && t.AccessToken != "" {
			t.SetAuthHeader(hr)
		}
	}
	for k, v := range req.headers {
		hr.Header.Set(k, v)
	}
	if payload != nil {
		logx.Debugf("api: %s %s body=%s", req.method, u.RequestURI(), util.Redact(string(payload)))
	} else {
		logx.Debugf("api: %s %s", req.method, u.RequestURI())
	}
	start := time.Now()
	resp, err := c.http.Do(hr)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	logx.Debugf("api: %s %s -> %d in %s", req.method, req.path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return resp, nil
}

func decode(resp *http.Response, req request, out any) error {
	switch {
	case resp.StatusCode == http.StatusNotModified:
		return ErrNotModified
	case resp.StatusCode >= 400:
		return newAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

type tokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (p tokenPair) token() *oauth2.Token {
	return &oauth2.Token{AccessToken: p.Token, RefreshToken: p.RefreshToken, TokenType: "Bearer"}
}

// sentToken is the access token a response was authorized with.
func sentToken(resp *http.Response) string {
	if resp.Request == nil {
		return ""
	}
	h := resp.Request.Header.Get("Authorization")
	if i := strings.IndexByte(h, ' '); i >= 0 {
		return h[i+1:]
	}
	return h
}

// refresh swaps the token pair after a request sent with access token used
// was rejected. Refreshes are serialized; a caller that finds the token
// already replaced since its request went out retries with that one
// instead of posting /refresh again.
func (c *Client) refresh(ctx context.Context, used string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	before := c.Token()
	if before != nil && before.AccessToken != "" && before.AccessToken != used {
		return nil
	}
	if before == nil || before.RefreshToken == "" {
		c.ClearToken()
		return ErrUnauthorized
	}
	var pair tokenPair
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/refresh",
		body:   map[string]string{"refreshToken": before.RefreshToken},
		public: true,
	}, &pair)
	if err != nil || pair.Token == "" {
		if cur := c.Token(); cur != nil && cur.AccessToken != before.AccessToken {
			return nil
		}
		logx.Warnf("api: token refresh failed: %v", err)
		c.ClearToken()
		return ErrUnauthorized
	}
	logx.Infof("api: token refreshed")
	c.replaceToken(pair.token())
	return nil
}
