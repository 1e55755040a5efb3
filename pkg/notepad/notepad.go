// Package notepad keeps a single free-text board (the "Innovation Dock")
// persisted in a kv.Store, with tone rephrasing through an inference client.
package notepad

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/singampalli/ideaminds/pkg/inference"
	"github.com/singampalli/ideaminds/pkg/kv"
)

// StorageKey is the key the board is persisted under.
const StorageKey = "online-notepad.v1"

var (
	// ErrEmpty is returned when rephrasing an empty board.
	ErrEmpty = errors.New("notepad: board is empty")
	// ErrUnknownTone is returned for tones outside Tones.
	ErrUnknownTone = errors.New("notepad: unknown tone")
	// ErrNoClient is returned by Rephrase when no inference client is set.
	ErrNoClient = errors.New("notepad: inference client is not configured")
)

// Tone names a rephrasing style.
type Tone string

const (
	ToneWitty      Tone = "Witty"
	ToneEmpathetic Tone = "Empathetic"
	ToneFormal     Tone = "Formal"
	ToneCasual     Tone = "Casual"
	ToneInspiring  Tone = "Inspiring"
)

// Tones lists the supported tones in display order.
var Tones = []Tone{ToneWitty, ToneEmpathetic, ToneFormal, ToneCasual, ToneInspiring}

// ParseTone matches name case-insensitively against Tones.
func ParseTone(name string) (Tone, error) {
	for _, tone := range Tones {
		if strings.EqualFold(string(tone), strings.TrimSpace(name)) {
			return tone, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTone, name)
}

// RephrasePrompt builds the instruction sent to the model.
func RephrasePrompt(tone Tone, text string) string {
	return fmt.Sprintf(`Rephrase the following in a "%s" tone. Preserve the original structure and headings. Do not include any introduction, explanation, or formatting. Output must begin directly with the rephrased content."%s"`, tone, text)
}

// Option configures a Notepad.
type Option func(*Notepad)

// WithClient sets the inference client used by Rephrase.
func WithClient(client inference.Client) Option {
	return func(n *Notepad) {
		n.client = client
	}
}

// WithAutosave controls whether SetText persists every edit. Enabled by
// default.
func WithAutosave(enabled bool) Option {
	return func(n *Notepad) {
		n.autosave = enabled
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Notepad) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// Notepad is the board state. Methods are safe for concurrent use.
type Notepad struct {
	mu       sync.Mutex
	store    kv.Store
	client   inference.Client
	autosave bool
	logger   *zap.Logger
	text     string
}

// New returns a notepad persisted in store.
func New(store kv.Store, options ...Option) *Notepad {
	n := &Notepad{
		store:    store,
		autosave: true,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Text returns the current board text.
func (n *Notepad) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

// Load replaces the board with the stored text. It reports false, leaving the
// board untouched, when nothing non-empty is stored.
func (n *Notepad) Load(ctx context.Context) (bool, error) {
	saved, ok, err := n.store.Get(ctx, StorageKey)
	if err != nil {
		return false, fmt.Errorf("notepad: load: %w", err)
	}
	if !ok || saved == "" {
		return false, nil
	}
	n.mu.Lock()
	n.text = saved
	n.mu.Unlock()
	return true, nil
}

// SetText replaces the board text, persisting it when autosave is on.
func (n *Notepad) SetText(ctx context.Context, text string) error {
	n.mu.Lock()
	n.text = text
	autosave := n.autosave
	n.mu.Unlock()

	if !autosave {
		return nil
	}
	if err := n.store.Set(ctx, StorageKey, text); err != nil {
		return fmt.Errorf("notepad: autosave: %w", err)
	}
	return nil
}

// Save persists the current board text.
func (n *Notepad) Save(ctx context.Context) error {
	if err := n.store.Set(ctx, StorageKey, n.Text()); err != nil {
		return fmt.Errorf("notepad: save: %w", err)
	}
	return nil
}

// Clear empties the board without touching the stored copy.
func (n *Notepad) Clear() {
	n.mu.Lock()
	n.text = ""
	n.mu.Unlock()
}

// Delete empties the board and removes the stored copy.
func (n *Notepad) Delete(ctx context.Context) error {
	n.Clear()
	if err := n.store.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("notepad: delete: %w", err)
	}
	return nil
}

// Rephrase rewrites the board in tone and replaces the board text with the
// model output. The new text is autosaved like any other edit.
func (n *Notepad) Rephrase(ctx context.Context, tone Tone) (string, error) {
	if _, err := ParseTone(string(tone)); err != nil {
		return "", err
	}
	if n.client == nil {
		return "", ErrNoClient
	}
	text := n.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}

	response, err := n.client.Generate(ctx, inference.Request{Prompt: RephrasePrompt(tone, text)})
	if err != nil {
		n.logger.Warn("rephrase failed", zap.String("tone", string(tone)), zap.Error(err))
		return "", fmt.Errorf("notepad: rephrase: %w", err)
	}
	if err := n.SetText(ctx, response); err != nil {
		return response, err
	}
	n.logger.Info("board rephrased", zap.String("tone", string(tone)))
	return response, nil
}
