// Package view renders the panel's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/condo-admin/i18n"
)

//go:embed templates
var templatesFS embed.FS

var (
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	// permission resolvers can be set by the host app to allow templates to check auth
	canResolver     func(*http.Request, string, string) bool
	isAdminResolver func(*http.Request) bool
	// defaultsResolver supplies per-request data every page needs (user, scope, flash).
	defaultsResolver func(http.ResponseWriter, *http.Request) map[string]any
)

// SetCanResolver sets a callback used by templates to check a resource:action
// permission in the building in scope.
func SetCanResolver(f func(*http.Request, string, string) bool) {
	if f != nil {
		canResolver = f
	}
}

// SetIsAdminResolver sets a callback used by templates to detect admins.
func SetIsAdminResolver(f func(*http.Request) bool) {
	if f != nil {
		isAdminResolver = f
	}
}

// SetDefaultsResolver registers the provider of shared page data. Keys the
// handler already set win.
func SetDefaultsResolver(f func(http.ResponseWriter, *http.Request) map[string]any) {
	defaultsResolver = f
}

// Funcs returns the standard func map including i18n and simple helpers.
// r may be nil while templates are parsed.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.DefaultLang
	if r != nil {
		lang = i18n.LangFromContext(r.Context())
	}
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		// can checks a permission (resource, action) in the selected building
		"can": func(resource string, action string) bool {
			if canResolver == nil || r == nil {
				return false
			}
			return canResolver(r, resource, action)
		},
		"isAdmin": func() bool {
			if isAdminResolver == nil || r == nil {
				return false
			}
			return isAdminResolver(r)
		},
		"money":   Money,
		"percent": func(v any) string { return Money(v) + "%" },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"status": func(s any) string { return i18n.T(lang, fmt.Sprintf("status.%v", s)) },
		"year":   func() int { return time.Now().Year() },
		"list":   func(values ...string) []string { return values },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// Money formats amounts with two decimals and a thousands separator.
func Money(v any) string {
	var d decimal.Decimal
	switch n := v.(type) {
	case decimal.Decimal:
		d = n
	case *decimal.Decimal:
		if n == nil {
			return ""
		}
		d = *n
	case float64:
		d = decimal.NewFromFloat(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	default:
		return fmt.Sprint(v)
	}
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func parse(name string) (*template.Template, error) {
	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}

	if _, err := fs.Stat(templatesFS, "templates/"+name); err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	t, err := template.New("layout.html").Funcs(Funcs(nil)).ParseFS(templatesFS,
		"templates/layout.html",
		"templates/partials/*.html",
		"templates/"+name,
	)
	if err != nil {
		return nil, err
	}
	tplCache.Lock()
	tplCache.m[name] = t
	tplCache.Unlock()
	return t, nil
}

// RenderStatus executes the page template name (e.g. "buildings/index.html")
// inside the layout. Output is buffered so a failing template never leaves a
// half-written page.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	base, err := parse(name)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	// Ensure data map exists and inject common defaults to avoid template errors.
	if data == nil {
		data = map[string]any{}
	}
	if defaultsResolver != nil {
		for k, v := range defaultsResolver(w, r) {
			if _, exists := data[k]; !exists {
				data[k] = v
			}
		}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		data["IsLoggedIn"] = data["User"] != nil
	}

	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
