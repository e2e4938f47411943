package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Template names
const (
	GenerateContentAssets = "generate_content_assets"
	SuggestPodcastTitles  = "suggest_podcast_titles"
	AdaptContentTone      = "adapt_content_tone"
)

// Input holds the slot values substituted into a template.
// Every slot referenced by a template must be present, even if empty.
type Input map[string]any

// Spec is the declarative form of a prompt template, as written in the YAML files
type Spec struct {
	Name        string `yaml:"name"`
	Version     int    `yaml:"version"`
	SchemaName  string `yaml:"schema"`
	Description string `yaml:"description"`
	System      string `yaml:"system"`
	User        string `yaml:"user"`
}

// Template is a compiled Spec
type Template struct {
	Name       string
	Version    int
	SchemaName string

	system *template.Template
	user   *template.Template
}

// Rendered is a template with its slots filled, ready to send to a model
type Rendered struct {
	Name       string
	Version    int
	SchemaName string
	System     string
	User       string
}

// InputArray returns the rendered prompt in the message format providers accept
func (r *Rendered) InputArray() []map[string]any {
	return []map[string]any{
		{"role": "user", "content": r.User},
	}
}

// Compile validates a spec and parses its text templates
func Compile(s Spec) (*Template, error) {
	if strings.TrimSpace(s.Name) == "" {
		return nil, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return nil, fmt.Errorf("invalid version for %s", s.Name)
	}
	if strings.TrimSpace(s.SchemaName) == "" {
		return nil, fmt.Errorf("missing schema name for %s", s.Name)
	}
	if strings.TrimSpace(s.User) == "" {
		return nil, fmt.Errorf("missing user template for %s", s.Name)
	}

	sysT, err := template.New(s.Name + ".system").Option("missingkey=error").Parse(s.System)
	if err != nil {
		return nil, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	userT, err := template.New(s.Name + ".user").Option("missingkey=error").Parse(s.User)
	if err != nil {
		return nil, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}

	return &Template{
		Name:       s.Name,
		Version:    s.Version,
		SchemaName: s.SchemaName,
		system:     sysT,
		user:       userT,
	}, nil
}

// Render fills the template slots from in
func (t *Template) Render(in Input) (*Rendered, error) {
	system, err := execute(t.system, in)
	if err != nil {
		return nil, fmt.Errorf("render %s system: %w", t.Name, err)
	}
	user, err := execute(t.user, in)
	if err != nil {
		return nil, fmt.Errorf("render %s user: %w", t.Name, err)
	}

	return &Rendered{
		Name:       t.Name,
		Version:    t.Version,
		SchemaName: t.SchemaName,
		System:     system,
		User:       user,
	}, nil
}

func execute(t *template.Template, in Input) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, map[string]any(in)); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
