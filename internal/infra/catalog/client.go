// Package catalog provides a client for remote station list documents.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/osa030/19radio/internal/domain/station"
)

// maxBodySize caps the station list document size (4 MiB).
const maxBodySize = 4 << 20

// Config represents catalog client configuration.
type Config struct {
	URL     string
	Timeout time.Duration
	Auth    *AuthConfig // Optional OAuth2 client credentials
}

// AuthConfig holds OAuth2 client credentials for protected station lists.
type AuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// entry is one element of the station list document.
type entry struct {
	Name string `mapstructure:"name" validate:"required"`
	URL  string `mapstructure:"url" validate:"required"`
}

// Client fetches and parses station list documents.
type Client struct {
	url        string
	httpClient *http.Client
	validate   *validator.Validate
}

// New creates a new catalog client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("station list URL is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid station list URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if u.Scheme == "file" {
		transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	}

	httpClient := &http.Client{Timeout: timeout, Transport: transport}
	if cfg.Auth != nil && cfg.Auth.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			TokenURL:     cfg.Auth.TokenURL,
			Scopes:       cfg.Auth.Scopes,
		}
		// The oauth2 transport wraps the base client taken from the context
		authClient := cc.Client(context.WithValue(ctx, oauth2.HTTPClient, httpClient))
		authClient.Timeout = timeout
		httpClient = authClient
	}

	return &Client{
		url:        cfg.URL,
		httpClient: httpClient,
		validate:   validator.New(),
	}, nil
}

// URL returns the station list address.
func (c *Client) URL() string {
	return c.url
}

// Fetch retrieves the station list and parses it into a catalog.
// Every failure is returned as *FetchError.
func (c *Client) Fetch(ctx context.Context) (station.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: errors.Wrap(err, "failed to create request")}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: errors.Wrap(err, "failed to send request")}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Kind:       KindHTTPStatus,
			StatusCode: resp.StatusCode,
			Err:        errors.Newf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: errors.Wrap(err, "failed to read response body")}
	}
	if len(body) > maxBodySize {
		return nil, &FetchError{Kind: KindTooLarge, Err: errors.Newf("body exceeds %d bytes", maxBodySize)}
	}

	catalog, err := c.Parse(body)
	if err != nil {
		return nil, err
	}

	zlog.Debug().Msgf("fetched station list: url=%s stations=%d elapsed=%v", c.url, len(catalog), time.Since(start))
	return catalog, nil
}

// Parse converts a station list document into a catalog.
func (c *Client) Parse(body []byte) (station.Catalog, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &FetchError{Kind: KindParse, Err: errors.Wrap(err, "failed to parse response")}
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, &FetchError{Kind: KindSchema, Err: errors.New("document is not an array")}
	}

	catalog := make(station.Catalog, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, &FetchError{Kind: KindSchema, Err: errors.Newf("entry %d is not an object", i)}
		}

		var e entry
		if err := mapstructure.Decode(fields, &e); err != nil {
			return nil, &FetchError{Kind: KindSchema, Err: errors.Wrapf(err, "entry %d", i)}
		}
		if err := c.validate.Struct(e); err != nil {
			return nil, &FetchError{Kind: KindSchema, Err: errors.Wrapf(err, "entry %d", i)}
		}

		catalog = append(catalog, station.Station{
			Name:      e.Name,
			StreamURL: e.URL,
		})
	}

	return catalog, nil
}
