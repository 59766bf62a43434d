// Package twitter reads a user's timeline from the Twitter API v2.
package twitter

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dghubble/oauth1"
)

// Client provides access to the Twitter REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	userIDs map[string]string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new API client. Without WithHTTPClient or WithOAuth1
// requests are sent unauthenticated.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userIDs: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithOAuth1 signs every request with OAuth 1.0a user-context credentials.
func WithOAuth1(consumerKey, consumerSecret, accessToken, accessSecret string) ClientOption {
	return func(c *Client) {
		cfg := oauth1.NewConfig(consumerKey, consumerSecret)
		hc := cfg.Client(context.Background(), oauth1.NewToken(accessToken, accessSecret))
		hc.Timeout = c.httpClient.Timeout
		c.httpClient = hc
	}
}
