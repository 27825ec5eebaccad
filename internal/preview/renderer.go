package preview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"cv-architect/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer is the live preview: a pure projection of the document plus a
// template identifier into read-only HTML. It holds no document state; the
// HTTP layer re-renders on demand after every mutation.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	r := &Renderer{templates: map[string]*template.Template{}}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".html")
		tpl, err := template.New(e.Name()).Funcs(template.FuncMap{
			"dateRange": dateRange,
			"linkLabel": linkLabel,
			"join":      strings.Join,
		}).ParseFS(templateFS, "templates/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("parsing preview template %s: %w", e.Name(), err)
		}
		r.templates[name] = tpl
	}
	return r, nil
}

// Templates lists the available preview template identifiers.
func (r *Renderer) Templates() []string {
	out := make([]string, 0, len(r.templates))
	for name := range r.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Render projects the document through the named template.
func (r *Renderer) Render(templateID string, doc model.CVData) ([]byte, error) {
	tpl, ok := r.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("unknown preview template %q", templateID)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dateRange renders "start – end" preferring structured dates over the raw
// display strings.
func dateRange(start, end string, startValue, endValue *model.DateValue) string {
	s := start
	if startValue != nil {
		s = model.FormatDate(*startValue)
	}
	e := end
	if endValue != nil {
		e = model.FormatDate(*endValue)
	}
	switch {
	case s == "" && e == "":
		return ""
	case e == "":
		return s
	case s == "":
		return e
	default:
		return s + " – " + e
	}
}

// linkLabel turns a contact URL into a tidy display label (eTLD+1 where it
// can be determined, hostname otherwise).
func linkLabel(raw string) string {
	if raw == "" {
		return ""
	}
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return raw
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	label := host
	if etld, err := publicsuffix.EffectiveTLDPlusOne(parsed.Hostname()); err == nil {
		label = strings.TrimPrefix(etld, "www.")
	}
	// keep the path for profile links like linkedin.com/in/username
	if p := strings.TrimSuffix(parsed.EscapedPath(), "/"); p != "" {
		label = host + p
	}
	return label
}
