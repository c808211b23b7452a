package shopapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"shop-directory-service/internal/domain"
	"shop-directory-service/internal/platform/obs"
	"shop-directory-service/internal/ports"
	"strings"
	"time"
)

const (
	defaultPath    = "/api/shops"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client implements ports.ShopSource against the remote shops API.
//
// A fetch is a single GET: no caching and no retries. Every failure is
// reported as *ports.FetchError so callers have one thing to present.
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	path    string
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.session = c
		}
	}
}

// WithPath overrides the shops listing path (default /api/shops).
func WithPath(p string) Option {
	return func(cl *Client) {
		if p = strings.TrimSpace(p); p != "" {
			if !strings.HasPrefix(p, "/") {
				p = "/" + p
			}
			cl.path = p
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("shops api: base url is empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("shops api: parse base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("shops api: base url %q must be http or https", baseURL)
	}

	c := &Client{
		session: &http.Client{Timeout: defaultTimeout},
		baseURL: baseURL,
		path:    defaultPath,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the full URL fetched by FetchShops.
func (c *Client) Endpoint() string { return c.baseURL + c.path }

// FetchShops retrieves and decodes the current shop list.
func (c *Client) FetchShops(ctx context.Context) (_ []domain.Shop, err error) {
	defer obs.Time(ctx, "shopapi.FetchShops")(&err)

	req, err := c.newRequest(ctx, http.MethodGet, c.Endpoint())
	if err != nil {
		return nil, ports.NewFetchError("could not build shops request", err)
	}

	resp, err := c.do(req)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			return nil, ports.NewFetchError(fmt.Sprintf("shops API returned status %d", he.Code), err)
		}
		return nil, ports.NewFetchError("could not reach shops API", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, ports.NewFetchError("could not read shops response", err)
	}

	shops, err := DecodeShops(body)
	if err != nil {
		return nil, ports.NewFetchError("could not decode shops response", err)
	}

	obs.Logger(ctx).Info().
		Str("endpoint", c.Endpoint()).
		Int("count", len(shops)).
		Msg("shops fetched")

	return shops, nil
}
