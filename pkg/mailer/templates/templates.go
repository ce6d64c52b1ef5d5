package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

const Welcome = "welcome"

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() || rv.IsZero() {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
		"default":    defaultFn,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

func renderFile(filename string, isHTML bool, data any) (string, error) {
	var buf bytes.Buffer
	if isHTML {
		tpl, err := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if err != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, err)
		}
		if err := tpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("exec %q: %w", filename, err)
		}
		return buf.String(), nil
	}
	tpl, err := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
	if err != nil {
		return "", fmt.Errorf("parse text %q: %w", filename, err)
	}
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Rendered is one email ready to send.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// Render renders <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
// The subject is trimmed to a single line.
func Render(name string, data any) (Rendered, error) {
	subject, err := renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return Rendered{}, err
	}
	text, err := renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return Rendered{}, err
	}
	html, err := renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Subject: strings.TrimSpace(subject), Text: text, HTML: html}, nil
}
