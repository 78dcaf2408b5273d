package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
)

const (
	baseTemplate  = "base.html"
	ErrorTemplate = "error.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a named template and its data into a response body.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data map[string]any) error
}

// TemplateRenderer renders pages parsed once from the embedded templates.
// Every page is parsed together with base.html, which supplies the layout.
type TemplateRenderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

var _ Renderer = (*TemplateRenderer)(nil)

func NewTemplateRenderer(logger *slog.Logger) (*TemplateRenderer, error) {
	return newTemplateRenderer(templateFS, logger)
}

func newTemplateRenderer(fsys fs.FS, logger *slog.Logger) (*TemplateRenderer, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, file := range names {
		name := path.Base(file)
		if name == baseTemplate {
			continue
		}
		tmpl, err := template.New(name).ParseFS(fsys, path.Join("templates", baseTemplate), file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	if _, ok := pages[ErrorTemplate]; !ok {
		return nil, fmt.Errorf("missing required template %s", ErrorTemplate)
	}

	logger.Info("Templates loaded", slog.Int("count", len(pages)))
	return &TemplateRenderer{
		pages:  pages,
		logger: logger.With("component", "TemplateRenderer"),
	}, nil
}

// Render executes the page into a buffer first so a template failure never
// leaves a half-written response behind.
func (t *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data map[string]any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, baseTemplate, data); err != nil {
		t.logger.Error("Failed to execute template", slog.String("template", name), slog.Any("error", err))
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		t.logger.Warn("Failed to write rendered page", slog.String("template", name), slog.Any("error", err))
	}
	return nil
}
