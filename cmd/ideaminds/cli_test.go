package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singampalli/ideaminds/pkg/renderers/tui"
)

// fakeBackend serves the template service and the local query endpoint.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	post := map[string]string{"id": "1", "name": "Post", "content": "Write a {tone|e.g. witty} post about {topic}."}

	mux.HandleFunc("/templates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]string{post})
	})
	mux.HandleFunc("/templates/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, post)
	})
	mux.HandleFunc("/personas", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"id": "p1", "name": "Ava", "role": "CFO", "tone": "calm"}})
	})
	mux.HandleFunc("/api/query", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"output": "echo: " + r.FormValue("prompt")})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeConfig(t *testing.T, server *httptest.Server) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ideaminds.yaml")
	content := strings.Join([]string{
		"api:",
		"  base_url: " + server.URL,
		"inference:",
		"  backend: local",
		"  url: " + server.URL + "/api/query",
		"storage:",
		"  backend: file",
		"  path: " + filepath.Join(dir, "store.yaml"),
		"logging:",
		"  level: error",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type cliResult struct {
	out    string
	errOut string
}

func runCLI(t *testing.T, cfgPath string, stdin string, driver tui.PromptDriver, args ...string) (cliResult, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp()
	a.in = strings.NewReader(stdin)
	a.out = &out
	a.errOut = &errOut
	a.driver = driver

	cmd := newRootCmd(a)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return cliResult{out: out.String(), errOut: errOut.String()}, err
}

type answerDriver struct {
	answers map[string]string
	asked   []string
}

func (d *answerDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	label, _, _ := strings.Cut(cfg.Message, " (")
	d.asked = append(d.asked, label)
	return d.answers[label], nil
}

func (d *answerDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *answerDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) { return true, nil }

func (d *answerDriver) TextArea(ctx context.Context, cfg tui.TextAreaConfig) (string, error) {
	return d.Input(ctx, tui.InputConfig{Message: cfg.Message})
}

func (d *answerDriver) Info(context.Context, string) error { return nil }

func TestTemplatesListAndFields(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))

	res, err := runCLI(t, cfg, "", nil, "templates", "list")
	require.NoError(t, err)
	assert.Contains(t, res.out, "ID")
	assert.Regexp(t, `1\s+Post\s+2\s+false`, res.out)

	res, err = runCLI(t, cfg, "", nil, "templates", "fields", "1")
	require.NoError(t, err)
	assert.Regexp(t, `Tone\s+\{tone\}\s+e\.g\. witty`, res.out)
	assert.Regexp(t, `Topic\s+\{topic\}`, res.out)
}

func TestTemplatesFieldsWithPresets(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))
	presets := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(presets, []byte("fields:\n  topic:\n    hint: pick one\n  tone:\n    hint: ignored\n"), 0o644))

	res, err := runCLI(t, cfg, "", nil, "--presets", presets, "templates", "fields", "1")
	require.NoError(t, err)
	assert.Regexp(t, `Topic\s+\{topic\}\s+pick one`, res.out)
	assert.Regexp(t, `Tone\s+\{tone\}\s+e\.g\. witty`, res.out)
}

func TestTemplatesExportSchema(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))

	res, err := runCLI(t, cfg, "", nil, "templates", "export-schema", "1")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.out), &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/templates/{id}/generate")
}

func TestTemplatesFieldsFromSchema(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))
	schema := filepath.Join(t.TempDir(), "post.openapi.json")

	res, err := runCLI(t, cfg, "", nil, "templates", "export-schema", "1", "-o", schema)
	require.NoError(t, err)
	assert.Contains(t, res.errOut, "Written to "+schema)

	res, err = runCLI(t, cfg, "", nil, "templates", "fields", "--schema", schema)
	require.NoError(t, err)
	assert.Regexp(t, `Tone\s+\{tone\}\s+e\.g\. witty`, res.out)
	assert.Regexp(t, `Topic\s+\{topic\}`, res.out)

	_, err = runCLI(t, cfg, "", nil, "templates", "fields")
	require.Error(t, err)
}

func TestTemplatesForm(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))

	res, err := runCLI(t, cfg, "", nil, "templates", "form", "1", "--action", "/generate")
	require.NoError(t, err)
	assert.Contains(t, res.out, "<form")
	assert.Contains(t, res.out, `action="/generate"`)
	assert.Contains(t, res.out, `name="Topic"`)
}

func TestGenerateWithSets(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))

	res, err := runCLI(t, cfg, "", nil, "generate", "--template", "1", "--set", "tone=witty", "--set", "Topic=Go")
	require.NoError(t, err)
	assert.Equal(t, "echo: Write a witty post about Go.\n", res.out)

	res, err = runCLI(t, cfg, "", nil, "generate", "--template", "1", "--set", "Tone=dry", "--set", "Topic=Go", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "Write a dry post about Go.\n", res.out)
}

func TestGenerateMissingValues(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))

	_, err := runCLI(t, cfg, "", nil, "generate", "--template", "1", "--set", "Tone=dry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Topic is required")

	_, err = runCLI(t, cfg, "", nil, "generate", "--set", "Tone=dry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a template must be selected")

	_, err = runCLI(t, cfg, "", nil, "generate", "--template", "1", "--set", "novalue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected Label=value")
}

func TestGenerateCollectsInteractively(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))
	driver := &answerDriver{answers: map[string]string{"Tone": "formal", "Topic": "taxes"}}

	res, err := runCLI(t, cfg, "", driver, "generate", "--template", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tone", "Topic"}, driver.asked)
	assert.Equal(t, "echo: Write a formal post about taxes.\n", res.out)
}

func TestGenerateInlineTemplateRequiresImage(t *testing.T) {
	server := fakeBackend(t)
	cfg := writeConfig(t, server)
	tpl := filepath.Join(t.TempDir(), "caption.txt")
	require.NoError(t, os.WriteFile(tpl, []byte("{attached_image} Caption for {audience}"), 0o644))

	_, err := runCLI(t, cfg, "", nil, "generate", "--template-file", tpl, "--set", "Audience=kids")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attached image")

	img := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\nrest"), 0o644))
	res, err := runCLI(t, cfg, "", nil, "generate", "--template-file", tpl, "--set", "Audience=kids", "--image", img)
	require.NoError(t, err)
	assert.Equal(t, "echo: {attached_image} Caption for kids\n", res.out)
}

func TestNotesLifecycle(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))

	_, err := runCLI(t, cfg, "", nil, "notes", "save", "A", "bike", "sharing", "app")
	require.NoError(t, err)

	res, err := runCLI(t, cfg, "", nil, "notes", "show")
	require.NoError(t, err)
	assert.Equal(t, "A bike sharing app\n", res.out)

	_, err = runCLI(t, cfg, "for kids", nil, "notes", "save", "--append")
	require.NoError(t, err)
	res, err = runCLI(t, cfg, "", nil, "notes", "show")
	require.NoError(t, err)
	assert.Equal(t, "A bike sharing app\nfor kids\n", res.out)

	res, err = runCLI(t, cfg, "", nil, "notes", "rephrase", "--tone", "witty")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.out, `echo: Rephrase the following in a "Witty" tone.`), res.out)

	res, err = runCLI(t, cfg, "", nil, "notes", "show")
	require.NoError(t, err)
	assert.Contains(t, res.out, "echo: Rephrase", "rephrased text is saved")

	_, err = runCLI(t, cfg, "", nil, "notes", "rephrase", "--tone", "sarcastic")
	require.Error(t, err)

	_, err = runCLI(t, cfg, "", nil, "notes", "clear")
	require.NoError(t, err)
	res, err = runCLI(t, cfg, "", nil, "notes", "show")
	require.NoError(t, err)
	assert.Empty(t, res.out)
	assert.Contains(t, res.errOut, "No saved notes.")
}

func TestPersonaAsk(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))

	res, err := runCLI(t, cfg, "", nil, "persona", "list")
	require.NoError(t, err)
	assert.Regexp(t, `p1\s+Ava\s+CFO\s+calm`, res.out)

	_, err = runCLI(t, cfg, "", nil, "notes", "save", "solar", "kiosks")
	require.NoError(t, err)

	res, err = runCLI(t, cfg, "", nil, "persona", "ask", "--persona", "p1", "Is", "it", "viable?")
	require.NoError(t, err)
	assert.Contains(t, res.out, "🧠 You: Is it viable?\n")
	assert.Contains(t, res.out, "🤖 Ava: echo: You are a persona named Ava.")
	assert.Contains(t, res.out, "Question: Is it viable? on this solar kiosks composed.")

	_, err = runCLI(t, cfg, "", nil, "persona", "ask", "--persona", "nobody", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `persona "nobody" not found`)
}

func TestSuiteWorkflow(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))
	md := strings.Join([]string{
		"# Login",
		"- Valid credentials",
		"Expected Result: Dashboard shown",
		"Priority: High",
		"# Layout",
		"- Header aligns",
	}, "\n")

	res, err := runCLI(t, cfg, md, nil, "suite", "import", "--from", "md")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Imported 2 test case(s); suite has 2.")

	res, err = runCLI(t, cfg, "", nil, "suite", "list", "--category", "Login")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Valid credentials")
	assert.NotContains(t, res.out, "Header aligns")

	res, err = runCLI(t, cfg, "", nil, "suite", "add", "--title", "Logout", "--category", "Login", "--platform", "iOS,Web")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Added login-")

	res, err = runCLI(t, cfg, "", nil, "suite", "facets")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Categories: All, Login, Layout")
	assert.Contains(t, res.out, "Priorities: All, P2 - Medium, High, Medium")

	res, err = runCLI(t, cfg, "", nil, "suite", "list", "--search", "DASHBOARD")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Valid credentials")

	res, err = runCLI(t, cfg, "", nil, "suite", "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, res.out, "title: Logout")

	exported, err := runCLI(t, cfg, "", nil, "suite", "export")
	require.NoError(t, err)
	res, err = runCLI(t, cfg, exported.out, nil, "suite", "import", "--from", "json", "--replace")
	require.NoError(t, err)
	assert.Contains(t, res.out, "suite has 3.")

	_, err = runCLI(t, cfg, "", nil, "suite", "export", "--format", "xml")
	require.Error(t, err)
}

func TestSuiteImportLLM(t *testing.T) {
	cfg := writeConfig(t, fakeBackend(t))
	raw := "```json\n[{\"category\":\"Checkout\",\"title\":\"Pay\",\"expectedResult\":\"Paid\",\"priority\":\"P0\"}]\n```"

	res, err := runCLI(t, cfg, raw, nil, "suite", "import", "--from", "llm", "-")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Imported 1 test case(s)")

	res, err = runCLI(t, cfg, "", nil, "suite", "list", "--priority", "P0")
	require.NoError(t, err)
	assert.Regexp(t, `checkout-\S+\s+Checkout\s+P0\s+Pay\s+Android`, res.out)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inference:\n  backend: carrier-pigeon\n"), 0o644))

	_, err := runCLI(t, path, "", nil, "notes", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid inference backend")
}

