// Package store is the REST client for the template and persona services.
package store

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"github.com/singampalli/ideaminds/internal/httperr"
	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/persona"
)

const (
	// DefaultBaseURL hosts the templates and personas collections.
	DefaultBaseURL = "http://localhost:8888"
	// DefaultGenerationURL is the generation executor endpoint.
	DefaultGenerationURL = "http://localhost:3001/executeGeneration"

	templatesPath = "/templates"
	personasPath  = "/personas"
)

var (
	// ErrNotFound matches 404 responses.
	ErrNotFound = httperr.ErrNotFound
	// ErrInvalid wraps validation failures of entities sent to or read from
	// the store.
	ErrInvalid = errors.New("store: invalid resource")
)

// StatusError reports a non-2xx response.
type StatusError = httperr.StatusError

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(url), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithGenerationURL overrides the generation executor endpoint.
func WithGenerationURL(url string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			c.generationURL = trimmed
		}
	}
}

// WithHTTPClient supplies the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the template service.
type Client struct {
	baseURL       string
	generationURL string
	timeout       time.Duration
	httpClient    *http.Client
	logger        *zap.Logger
	rest          *resty.Client
}

// New builds a Client.
func New(options ...Option) *Client {
	c := &Client{
		baseURL:       DefaultBaseURL,
		generationURL: DefaultGenerationURL,
		logger:        zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}

	if c.httpClient != nil {
		c.rest = resty.NewWithClient(c.httpClient)
	} else {
		c.rest = resty.New()
	}
	c.rest.SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json").
		SetLogger(c.logger.Sugar())
	if c.timeout > 0 {
		c.rest.SetTimeout(c.timeout)
	}
	return c
}

// Templates returns the templates collection.
func (c *Client) Templates() *Templates {
	return &Templates{
		Resource:      newResource[model.Template](c, templatesPath, "template"),
		client:        c,
		generationURL: c.generationURL,
	}
}

// Personas returns the personas collection.
func (c *Client) Personas() *Personas {
	return &Personas{Resource: newResource[persona.Persona](c, personasPath, "persona")}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.rest.Close()
}
