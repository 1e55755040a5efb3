package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/singampalli/ideaminds/internal/httperr"
	"github.com/singampalli/ideaminds/pkg/inference"
	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/persona"
)

// ErrNoImage is returned when a generation is executed without an image.
var ErrNoImage = errors.New("store: image is required")

// Templates is the prompt template collection.
type Templates struct {
	Resource[model.Template]
	client        *Client
	generationURL string
}

// Personas is the persona collection.
type Personas struct {
	Resource[persona.Persona]
}

// ExecuteGeneration uploads image to the generation executor together with
// the generator id and returns the raw JSON reply.
func (t *Templates) ExecuteGeneration(ctx context.Context, image *inference.Image, generatorID string) (json.RawMessage, error) {
	if image == nil || len(image.Data) == 0 {
		return nil, ErrNoImage
	}
	if err := requireID(generatorID); err != nil {
		return nil, err
	}

	resp, err := t.client.rest.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{"generatorId": generatorID}).
		SetMultipartField("image", image.FileName(), image.MediaType(), bytes.NewReader(image.Data)).
		Post(t.generationURL)
	if err != nil {
		t.client.logger.Error("generation request failed", zap.String("url", t.generationURL), zap.Error(err))
		return nil, fmt.Errorf("store: execute generation: %w", err)
	}
	if resp.IsError() {
		t.client.logger.Warn("generation request rejected",
			zap.String("generator", generatorID),
			zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("store: execute generation: %w", httperr.New(resp.StatusCode(), resp.String()))
	}

	body := bytes.TrimSpace(resp.Bytes())
	if len(body) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("store: execute generation: response is not JSON: %s", truncate(string(body), 80))
	}
	return json.RawMessage(body), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
