package hue

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single bridge request
const DefaultTimeout = 10 * time.Second

// MeetHueDiscoveryURL is the cloud discovery endpoint
const MeetHueDiscoveryURL = "https://discovery.meethue.com"

// Browser looks up bridge addresses on the local network. Each address is a
// host or host:port.
type Browser func(ctx context.Context, logger *slog.Logger) ([]string, error)

type options struct {
	logger       *slog.Logger
	httpClient   *http.Client
	cloudClient  *http.Client
	caFile       string
	timeout      time.Duration
	discoveryURL string
	browser      Browser
}

// Option configures the bridge client
type Option func(*options)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHTTPClient replaces the HTTP client built from the CA and timeout options
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithCloudHTTPClient replaces the client used for the cloud discovery
// endpoint. By default it verifies against the system roots.
func WithCloudHTTPClient(c *http.Client) Option {
	return func(o *options) { o.cloudClient = c }
}

// WithCAFile verifies the bridge certificate chain against the PEM bundle at path
func WithCAFile(path string) Option {
	return func(o *options) { o.caFile = path }
}

// WithTimeout sets the per request timeout
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithDiscoveryURL overrides the cloud discovery endpoint. An empty URL
// disables cloud discovery.
func WithDiscoveryURL(url string) Option {
	return func(o *options) { o.discoveryURL = url }
}

// WithBrowser overrides the mDNS lookup. A nil browser disables it.
func WithBrowser(b Browser) Option {
	return func(o *options) { o.browser = b }
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{
		timeout:      DefaultTimeout,
		discoveryURL: MeetHueDiscoveryURL,
		browser:      BrowseMDNS,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.httpClient == nil {
		c, err := NewHTTPClient(o.caFile, o.timeout, o.logger)
		if err != nil {
			return nil, err
		}
		o.httpClient = c
	}
	// The bridge client trusts only the bridge CA, or nothing at all
	if o.cloudClient == nil {
		o.cloudClient = &http.Client{Timeout: o.timeout}
	}
	return o, nil
}
