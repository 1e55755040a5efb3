package inference

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"github.com/singampalli/ideaminds/internal/httperr"
)

// DefaultLocalURL is the query endpoint of the local inference server.
const DefaultLocalURL = "http://localhost:8888/api/query"

// LocalOption configures a Local client.
type LocalOption func(*Local)

// WithURL overrides the query endpoint.
func WithURL(url string) LocalOption {
	return func(l *Local) {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			l.url = trimmed
		}
	}
}

// WithModel overrides the model field sent with each request.
func WithModel(model string) LocalOption {
	return func(l *Local) {
		if trimmed := strings.TrimSpace(model); trimmed != "" {
			l.model = trimmed
		}
	}
}

// WithHTTPClient supplies the underlying HTTP client.
func WithHTTPClient(client *http.Client) LocalOption {
	return func(l *Local) {
		l.httpClient = client
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) LocalOption {
	return func(l *Local) {
		l.timeout = timeout
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) LocalOption {
	return func(l *Local) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Local posts multipart form requests (model, prompt and an optional image
// file) to a local query endpoint and reads the "output" field of the JSON
// reply.
type Local struct {
	url        string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	client     *resty.Client
}

var _ Client = (*Local)(nil)

type queryResponse struct {
	Output *string `json:"output"`
}

// NewLocal builds a Local client.
func NewLocal(options ...LocalOption) *Local {
	l := &Local{
		url:    DefaultLocalURL,
		model:  DefaultModel,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}

	if l.httpClient != nil {
		l.client = resty.NewWithClient(l.httpClient)
	} else {
		l.client = resty.New()
	}
	if l.timeout > 0 {
		l.client.SetTimeout(l.timeout)
	}
	l.client.SetLogger(l.logger.Sugar())
	return l
}

// Generate sends the prompt and returns the generated output. A reply
// without an output field yields an empty string.
func (l *Local) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}

	var result queryResponse
	request := l.client.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"model":  l.model,
			"prompt": req.Prompt,
		}).
		SetExpectResponseContentType("application/json").
		SetResult(&result)
	if req.Image != nil {
		request.SetMultipartField("image", req.Image.FileName(), req.Image.MediaType(), bytes.NewReader(req.Image.Data))
	}

	start := time.Now()
	resp, err := request.Post(l.url)
	if err != nil {
		l.logger.Error("inference request failed", zap.String("url", l.url), zap.Error(err))
		return "", fmt.Errorf("inference: query: %w", err)
	}
	if resp.IsError() {
		l.logger.Warn("inference request rejected",
			zap.String("url", l.url),
			zap.Int("status", resp.StatusCode()))
		return "", fmt.Errorf("inference: query: %w", httperr.New(resp.StatusCode(), resp.String()))
	}

	l.logger.Debug("inference completed",
		zap.String("model", l.model),
		zap.Bool("image", req.Image != nil),
		zap.Duration("elapsed", time.Since(start)))

	if result.Output == nil {
		return "", nil
	}
	return *result.Output, nil
}

// Close releases idle connections.
func (l *Local) Close() error {
	return l.client.Close()
}
