// Package prompt renders the instruction sent upstream for each handler.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
)

var (
	//go:embed templates/polish.tmpl
	defaultPolish string

	//go:embed templates/framework.tmpl
	defaultFramework string
)

type data struct {
	Input string
}

// Builder holds the two parsed templates. Safe for concurrent use.
type Builder struct {
	polish    *template.Template
	framework *template.Template
}

// New parses both templates. Each must reference {{.Input}} and render
// without error.
func New(polishTmpl, frameworkTmpl string) (*Builder, error) {
	p, err := parse("polish", polishTmpl)
	if err != nil {
		return nil, err
	}
	f, err := parse("framework", frameworkTmpl)
	if err != nil {
		return nil, err
	}
	return &Builder{polish: p, framework: f}, nil
}

// Default returns a Builder over the embedded templates.
func Default() *Builder {
	b, err := New(defaultPolish, defaultFramework)
	if err != nil {
		panic(err)
	}
	return b
}

// Load reads template overrides from disk. An empty path keeps the
// embedded template for that handler.
func Load(polishPath, frameworkPath string) (*Builder, error) {
	polishTmpl, err := readOr(polishPath, defaultPolish)
	if err != nil {
		return nil, err
	}
	frameworkTmpl, err := readOr(frameworkPath, defaultFramework)
	if err != nil {
		return nil, err
	}
	return New(polishTmpl, frameworkTmpl)
}

func readOr(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("prompt: read %s: %w", path, err)
	}
	return string(b), nil
}

func parse(name, text string) (*template.Template, error) {
	if !strings.Contains(text, "{{.Input}}") {
		return nil, fmt.Errorf("prompt: %s template does not reference {{.Input}}", name)
	}
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("prompt: parse %s: %w", name, err)
	}
	if err := t.Execute(&strings.Builder{}, data{Input: "probe"}); err != nil {
		return nil, fmt.Errorf("prompt: render %s: %w", name, err)
	}
	return t, nil
}

// Polish builds the legal polishing instruction for text.
func (b *Builder) Polish(text string) (string, error) {
	return render(b.polish, text)
}

// Framework builds the writing-outline instruction for topic, which asks the
// model to end with a "检索关键词：" line.
func (b *Builder) Framework(topic string) (string, error) {
	return render(b.framework, topic)
}

func render(t *template.Template, input string) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data{Input: input}); err != nil {
		return "", fmt.Errorf("prompt: render %s: %w", t.Name(), err)
	}
	return sb.String(), nil
}
