package handlers

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"
)

// Pages, her sayfa template'ini birlikte parse edildiği layout ile listeler.
var Pages = map[string][]string{
	"index.html": {"index.html", "base.html"},
}

// TemplateFuncs, tüm sayfa template'lerinde kullanılabilir.
var TemplateFuncs = template.FuncMap{
	"money": func(v any) string {
		switch n := v.(type) {
		case decimal.Decimal:
			return "NT$" + n.StringFixed(0)
		case int:
			return fmt.Sprintf("NT$%d", n)
		default:
			return fmt.Sprint(v)
		}
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// HTMLRenderer, her sayfa için ayrı template setlerini yönetir.
type HTMLRenderer struct {
	Templates map[string]*template.Template
}

// LoadTemplates, dir altındaki tüm sayfaları parse eder.
func LoadTemplates(dir string, pages map[string][]string) (*HTMLRenderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, files := range pages {
		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = filepath.Join(dir, f)
		}
		tmpl, err := template.New(name).Funcs(TemplateFuncs).ParseFiles(paths...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &HTMLRenderer{Templates: templates}, nil
}

// Instance, render işlemini hazırlar.
func (r *HTMLRenderer) Instance(name string, data any) render.Render {
	return render.HTML{
		Template: r.Templates[name],
		Name:     name,
		Data:     data,
	}
}
