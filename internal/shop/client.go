package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/five82/basket/internal/cart"
)

// CatalogService lists the products on sale.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]cart.Product, error)
}

// StockService reports how many units of a product are available.
type StockService interface {
	GetAvailable(ctx context.Context, id cart.ProductID) (int, error)
}

// Ensure Client implements both services at compile time.
var (
	_ CatalogService = (*Client)(nil)
	_ StockService   = (*Client)(nil)
)

// Client talks to the shop HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

const (
	defaultAPIBind   = "127.0.0.1:3333"
	defaultUserAgent = "basket/0.1"
	requestTimeout   = 5 * time.Second

	breakerTrips   = 5
	breakerTimeout = 10 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "shop-api",
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrips
		},
		IsSuccessful: func(err error) bool {
			// A missing product is an answer, not an outage.
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c, nil
}

// ListProducts retrieves the product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]cart.Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	payload, err := execute(c.breaker, func() ([]productPayload, error) {
		var out []productPayload
		err := c.do(ctx, http.MethodGet, "/products", &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	products := make([]cart.Product, 0, len(payload))
	for _, p := range payload {
		products = append(products, p.toProduct())
	}
	return products, nil
}

// GetAvailable retrieves the units in stock for id.
func (c *Client) GetAvailable(ctx context.Context, id cart.ProductID) (int, error) {
	if c == nil {
		return 0, fmt.Errorf("client is nil")
	}
	path := "/stock/" + strconv.FormatInt(int64(id), 10)
	payload, err := execute(c.breaker, func() (stockPayload, error) {
		var out stockPayload
		err := c.do(ctx, http.MethodGet, path, &out)
		return out, err
	})
	if err != nil {
		return 0, err
	}
	return payload.Quantity, nil
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: rel.String(), Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// execute runs fn through the breaker, translating a rejected call into
// ErrUnavailable.
func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return *new(T), err
	}
	return res.(T), nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
