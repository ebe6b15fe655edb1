package httpx

import (
	"io"
	"net"
	"net/http"
	"time"
)

// Client is a small wrapper around http.Client with sane defaults and a
// bounded retry for idempotent requests.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
	// MaxRetries is the number of extra attempts after the first one for
	// GET/HEAD requests that fail at the transport level or answer 429/5xx.
	MaxRetries   int
	RetryBackoff time.Duration
}

func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &Client{
		HTTP:         &http.Client{Timeout: timeout, Transport: transport},
		UserAgent:    "stock-webhook/1.0",
		MaxRetries:   1,
		RetryBackoff: 250 * time.Millisecond,
	}
}

// Do sends req, retrying at most MaxRetries times. The request context
// bounds the whole exchange including backoff waits.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	attempts := 1
	if idempotent(req.Method) && c.MaxRetries > 0 {
		attempts += c.MaxRetries
	}

	var (
		resp *http.Response
		err  error
	)
	for i := 0; i < attempts; i++ {
		if i > 0 {
			t := time.NewTimer(c.RetryBackoff)
			select {
			case <-req.Context().Done():
				t.Stop()
				return nil, req.Context().Err()
			case <-t.C:
			}
		}
		resp, err = c.HTTP.Do(req)
		if !retryable(resp, err) || i == attempts-1 {
			break
		}
		if resp != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
			resp.Body.Close()
		}
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}
	}
	return resp, err
}

func idempotent(method string) bool {
	return method == "" || method == http.MethodGet || method == http.MethodHead
}

func retryable(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}
