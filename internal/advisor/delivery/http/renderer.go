package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"golang-stock-advisor/pkg/common"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer renders the embedded HTML pages for echo.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"rupee": func(v *float64) string {
			if v == nil {
				return "N/A"
			}
			return fmt.Sprintf("%s%.2f", common.CurrencySymbol, *v)
		},
		"num": func(v *float64) string {
			if v == nil {
				return "N/A"
			}
			return fmt.Sprintf("%.2f", *v)
		},
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &TemplateRenderer{templates: tmpl}, nil
}

// Render implements echo.Renderer.
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
