// Package client is a typed Go client for the rainwater HTTP API.
package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/R3E-Network/rainwater/internal/httputil"
	rainwatersvc "github.com/R3E-Network/rainwater/services/rainwater"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
}

// Client calls a remote rainwater service.
type Client struct {
	http *httputil.ServiceClient
}

// New creates a client for the service at cfg.BaseURL.
func New(cfg Config) *Client {
	return &Client{
		http: httputil.NewServiceClient(httputil.ServiceClientConfig{
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			HTTPClient: cfg.HTTPClient,
		}),
	}
}

// Trap returns the trapped water of heights computed remotely.
func (c *Client) Trap(ctx context.Context, heights []int, method string) (*rainwatersvc.TrapResponse, error) {
	if heights == nil {
		heights = []int{}
	}
	resp, err := c.http.Post(ctx, "/v1/trap", rainwatersvc.TrapRequest{Heights: heights, Method: method})
	if err != nil {
		return nil, err
	}

	var out rainwatersvc.TrapResponse
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrapQuery is Trap using the GET form of the endpoint.
func (c *Client) TrapQuery(ctx context.Context, heights []int, method string) (*rainwatersvc.TrapResponse, error) {
	parts := make([]string, len(heights))
	for i, h := range heights {
		parts[i] = strconv.Itoa(h)
	}
	q := url.Values{}
	q.Set("heights", strings.Join(parts, ","))
	if method != "" {
		q.Set("method", method)
	}

	resp, err := c.http.Get(ctx, "/v1/trap?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var out rainwatersvc.TrapResponse
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile returns the full breakdown of heights.
func (c *Client) Profile(ctx context.Context, heights []int) (*rainwatersvc.ProfileResponse, error) {
	if heights == nil {
		heights = []int{}
	}
	resp, err := c.http.Post(ctx, "/v1/profile", rainwatersvc.ProfileRequest{Heights: heights})
	if err != nil {
		return nil, err
	}

	var out rainwatersvc.ProfileResponse
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Batch computes several profiles in one request.
func (c *Client) Batch(ctx context.Context, profiles [][]int, method string) (*rainwatersvc.BatchResponse, error) {
	resp, err := c.http.Post(ctx, "/v1/batch", rainwatersvc.BatchRequest{Profiles: profiles, Method: method})
	if err != nil {
		return nil, err
	}

	var out rainwatersvc.BatchResponse
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health returns the service health report.
func (c *Client) Health(ctx context.Context) (*rainwatersvc.HealthResponse, error) {
	resp, err := c.http.Get(ctx, "/health")
	if err != nil {
		return nil, err
	}

	var out rainwatersvc.HealthResponse
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
