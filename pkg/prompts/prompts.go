package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed prompts.yaml
var defaultPrompts []byte

type Prompts struct {
	System    SystemPrompts    `yaml:"system"`
	Summary   SummaryPrompts   `yaml:"summary"`
	Takeaways TakeawaysPrompts `yaml:"takeaways"`
}

type SystemPrompts struct {
	Summarizer string `yaml:"summarizer"`
	Creator    string `yaml:"creator"`
}

type SummaryPrompts struct {
	Generate string `yaml:"generate"`
}

type TakeawaysPrompts struct {
	Generate string `yaml:"generate"`
}

type SummaryParams struct {
	Title    string
	Author   string
	MinWords int
}

type TakeawaysParams struct {
	Title        string
	Summary      string
	Count        int
	HashtagCount int
}

// Load returns the embedded prompts, overridden by prompts.yaml when one
// exists in the working directory.
func Load() (*Prompts, error) {
	if _, err := os.Stat(defaultPromptsPath); err == nil {
		return LoadFrom(defaultPromptsPath)
	}

	var p Prompts
	if err := yaml.Unmarshal(defaultPrompts, &p); err != nil {
		return nil, fmt.Errorf("parse embedded prompts: %w", err)
	}
	return &p, nil
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}

	return &p, nil
}

func (p *Prompts) RenderSummary(params SummaryParams) (string, error) {
	return render(p.Summary.Generate, params)
}

func (p *Prompts) RenderTakeaways(params TakeawaysParams) (string, error) {
	return render(p.Takeaways.Generate, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
