package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/singampalli/ideaminds/internal/config"
	"github.com/singampalli/ideaminds/internal/logging"
	"github.com/singampalli/ideaminds/pkg/inference"
	"github.com/singampalli/ideaminds/pkg/kv"
	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/orchestrator"
	"github.com/singampalli/ideaminds/pkg/render"
	"github.com/singampalli/ideaminds/pkg/renderers/tui"
	"github.com/singampalli/ideaminds/pkg/renderers/vanilla"
	"github.com/singampalli/ideaminds/pkg/store"
	"github.com/singampalli/ideaminds/pkg/widgets"
)

// app carries the state shared by every subcommand. Dependencies are built
// lazily so commands that never touch storage or the network stay cheap.
type app struct {
	configPath  string
	presetsPath string
	verbose     bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	driver tui.PromptDriver

	cfg    *config.Config
	logger *zap.Logger
	kv     kv.Store
	client *store.Client
}

func newApp() *app {
	return &app{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath == "" {
		a.configPath = config.Path()
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(cfg.Logging.Mode, level)
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String("command", cmd.CommandPath()))
	return nil
}

func (a *app) teardown() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil && a.logger != nil {
			a.logger.Warn("close storage", zap.Error(err))
		}
		a.kv = nil
	}
	if a.client != nil {
		_ = a.client.Close()
		a.client = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) storage(ctx context.Context) (kv.Store, error) {
	if a.kv != nil {
		return a.kv, nil
	}
	opened, err := kv.Open(ctx, a.cfg.Storage.Backend, a.cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.kv = opened
	return opened, nil
}

func (a *app) api() *store.Client {
	if a.client == nil {
		a.client = store.New(
			store.WithBaseURL(a.cfg.API.BaseURL),
			store.WithGenerationURL(a.cfg.API.GenerationURL),
			store.WithTimeout(a.cfg.APITimeout()),
			store.WithLogger(a.logger.Named("store")),
		)
	}
	return a.client
}

func (a *app) backends() *orchestrator.BackendRegistry {
	registry := orchestrator.NewBackendRegistry()
	registry.MustRegister("local", inference.NewLocal(
		inference.WithURL(a.cfg.Inference.URL),
		inference.WithModel(a.cfg.Inference.Model),
		inference.WithTimeout(a.cfg.InferenceTimeout()),
		inference.WithLogger(a.logger.Named("inference")),
	))
	registry.MustRegister("openai", inference.NewOpenAI(
		inference.WithAPIKey(a.cfg.Inference.APIKey),
		inference.WithBaseURL(a.cfg.Inference.BaseURL),
		inference.WithChatModel(a.cfg.Inference.Model),
		inference.WithSystemPrompt(a.cfg.Inference.SystemPrompt),
		inference.WithOpenAIHTTPClient(&http.Client{Timeout: a.cfg.InferenceTimeout()}),
		inference.WithOpenAILogger(a.logger.Named("inference")),
	))
	return registry
}

// defaultBackend returns the configured inference backend.
func (a *app) defaultBackend() (inference.Client, error) {
	return a.backends().Get(a.cfg.Inference.Backend)
}

func (a *app) promptDriver() tui.PromptDriver {
	if a.driver != nil {
		return a.driver
	}
	return tui.NewSurveyDriver(a.errOut)
}

func (a *app) orchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	registry := render.NewRegistry()
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	registry.MustRegister(html)
	registry.MustRegister(tui.New(tui.WithPromptDriver(a.promptDriver())))

	backends := a.backends()
	client, err := backends.Get(a.cfg.Inference.Backend)
	if err != nil {
		return nil, err
	}

	base := []orchestrator.Option{}
	if a.presetsPath != "" {
		data, err := os.ReadFile(a.presetsPath)
		if err != nil {
			return nil, fmt.Errorf("read presets: %w", err)
		}
		presets, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		base = append(base, orchestrator.WithSchemaTransformer(presets))
	}
	base = append(base,
		orchestrator.WithTemplateSource(a.api().Templates()),
		orchestrator.WithRegistry(registry),
		orchestrator.WithInference(client),
		orchestrator.WithBackends(backends),
		orchestrator.WithUIDecorators(widgets.NewRegistry(), model.HintPlaceholders()),
		orchestrator.WithLogger(a.logger.Named("orchestrator")),
	)
	return orchestrator.New(append(base, options...)...), nil
}

// readInput returns the contents of path, or of stdin for "-".
func (a *app) readInput(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" || path == "-" {
		return io.ReadAll(a.in)
	}
	return os.ReadFile(path)
}

// writeOutput writes data to path, or to stdout when path is empty.
func (a *app) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := a.out.Write(data)
		if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
			_, err = io.WriteString(a.out, "\n")
		}
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "Written to %s\n", path)
	return nil
}
