package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/samlap/samlap-web/internal/shared"
	"github.com/samlap/samlap-web/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Data        any
}

// Funcs is the helper set available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"percent": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
		"signedPercent": func(v float64) string {
			return fmt.Sprintf("%+.1f%%", v)
		},
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
		"mod": func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a % b
		},
		"fontStep": fontStep,
		"activeFor": func(current, prefix string) bool {
			if prefix == "/" {
				return current == "/"
			}
			return current == prefix || strings.HasPrefix(current, prefix+"/")
		},
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd argument count")
			}
			out := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				out[key] = pairs[i+1]
			}
			return out, nil
		},
	}
}

// fontStep buckets a word cloud font size (12 to 48 px) into the ten
// fs-0..fs-9 classes of app.css. Sizes are classes because the content
// security policy forbids inline styles.
func fontStep(size float64) int {
	step := int(math.Round((size - 12) / 4))
	if step < 0 {
		return 0
	}
	if step > 9 {
		return 9
	}
	return step
}

// formatDate renders API dates (YYYY-MM-DD or RFC 3339) for display and
// passes anything else through unchanged.
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.Format("Jan 2, 2006")
			}
		}
		return t
	default:
		return fmt.Sprint(v)
	}
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	tpl, err := template.New("root").Funcs(Funcs()).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/fragments/*.html",
		"templates/pages/*.html",
	)
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named page template with TemplateData. The page is
// buffered so a template error never leaves a half-written response.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.render(w, name, data)
}

// RenderFragment executes a partial-page template used by the panel
// endpoints. data is the panel view model.
func (e *Engine) RenderFragment(w http.ResponseWriter, name string, data any) error {
	return e.render(w, name, data)
}

// Execute writes a template to an arbitrary writer, used for PDF sources.
func (e *Engine) Execute(w io.Writer, name string, data any) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}

func (e *Engine) render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := e.Execute(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
