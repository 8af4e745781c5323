package notion

import (
	"fmt"
	"runtime"

	"github.com/imroc/req/v3"
	"github.com/notesync/notesync/internal/version"
)

const (
	DefaultBaseURL = "https://api.notion.com"

	// APIVersion is pinned; newer versions change the block and property wire shapes.
	APIVersion = "2022-06-28"

	HeaderNotionVersion = "Notion-Version"
)

var userAgent = fmt.Sprintf("%s/%s (%s; %s; %s)", version.AppName, version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

// Client is the HTTP client for the page/database service.
type Client struct {
	http *req.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different API endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(baseURL)
	}
}

// WithAPIVersion overrides the pinned Notion-Version header.
func WithAPIVersion(apiVersion string) Option {
	return func(c *Client) {
		c.http.SetCommonHeader(HeaderNotionVersion, apiVersion)
	}
}

// New creates an API client authenticated with the given integration token.
// Requests are not retried. A failed sync run is retried by running the
// command again.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	httpClient := req.C().
		SetBaseURL(DefaultBaseURL).
		SetUserAgent(userAgent).
		SetCommonBearerAuthToken(token).
		SetCommonHeader(HeaderNotionVersion, APIVersion).
		SetCommonErrorResult(&APIError{}).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	client := &Client{http: httpClient}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}
