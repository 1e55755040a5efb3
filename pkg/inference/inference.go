// Package inference sends composed prompts to a text generation backend.
package inference

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

var (
	// ErrEmptyPrompt is returned when the prompt is blank.
	ErrEmptyPrompt = errors.New("inference: prompt is empty")
	// ErrNoChoices is returned when a chat completion carries no choices.
	ErrNoChoices = errors.New("inference: response has no choices")
)

// DefaultModel is sent when no model is configured.
const DefaultModel = "llama3"

// Client generates text for a prompt, optionally grounded on an image.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (string, error)

func (f ClientFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Request is a single generation call.
type Request struct {
	Prompt string
	Image  *Image
}

// Image is an uploaded image attachment.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// LoadImage reads an image from disk and sniffs its content type.
func LoadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inference: read image: %w", err)
	}
	return &Image{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// MediaType returns the declared content type, sniffing the data when unset.
func (i *Image) MediaType() string {
	if i.ContentType != "" {
		return i.ContentType
	}
	return http.DetectContentType(i.Data)
}

// FileName returns the upload file name.
func (i *Image) FileName() string {
	if i.Name != "" {
		return i.Name
	}
	return "image"
}

// DataURL encodes the image as a base64 data URL.
func (i *Image) DataURL() string {
	return "data:" + i.MediaType() + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}
