// Package transport talks to the device: document downloads and form posts.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrStatus is the kind of a non-2xx device response.
var ErrStatus = errors.New("transport: unexpected status")

// Options configures the HTTP client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Client is the device HTTP transport.
type Client struct {
	getter *resty.Client
	poster *resty.Client
	logger *zap.Logger
}

// NewClient creates a device client. logger may be nil.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	base := strings.TrimRight(opts.BaseURL, "/")

	getter := resty.New().
		SetBaseURL(base).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	// saves are never retried
	poster := resty.New().
		SetBaseURL(base).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8").
		SetHeader("Accept", "application/json")

	return &Client{getter: getter, poster: poster, logger: logger.Named("transport")}
}

// GetJSON downloads one document.
func (c *Client) GetJSON(ctx context.Context, name string) (json.RawMessage, error) {
	resp, err := c.getter.R().
		SetContext(ctx).
		Get("/" + name)
	if err != nil {
		c.logger.Warn("document fetch failed", zap.String("document", name), zap.Error(err))
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	if resp.IsError() {
		c.logger.Warn("document fetch failed",
			zap.String("document", name),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("get %s: %d: %w", name, resp.StatusCode(), ErrStatus)
	}
	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("get %s: invalid JSON", name)
	}
	return json.RawMessage(body), nil
}

// GetManyJSON downloads documents concurrently; any failure fails the batch.
func (c *Client) GetManyJSON(ctx context.Context, names []string) ([]json.RawMessage, error) {
	return getMany(ctx, names, c.GetJSON)
}

// PostForm submits a form to a device endpoint and returns the JSON reply.
// An empty reply is returned as an empty object.
func (c *Client) PostForm(ctx context.Context, endpoint string, form Form) (json.RawMessage, error) {
	c.logger.Debug("posting form", zap.String("endpoint", endpoint), zap.Strings("fields", form.Keys()))

	resp, err := c.poster.R().
		SetContext(ctx).
		SetBody(form.Encode()).
		Post("/" + endpoint)
	if err != nil {
		c.logger.Error("form post failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("post %s: %w", endpoint, err)
	}
	if resp.IsError() {
		c.logger.Error("form post failed",
			zap.String("endpoint", endpoint),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("post %s: %d: %w", endpoint, resp.StatusCode(), ErrStatus)
	}
	return reply(resp.Body()), nil
}

func reply(body []byte) json.RawMessage {
	if len(strings.TrimSpace(string(body))) == 0 || !json.Valid(body) {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(body)
}

func getMany(ctx context.Context, names []string, get func(context.Context, string) (json.RawMessage, error)) ([]json.RawMessage, error) {
	docs := make([]json.RawMessage, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			doc, err := get(ctx, name)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
