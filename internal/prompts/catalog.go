// Package prompts holds the prompt templates used by the project wizard,
// keyed by project type.
package prompts

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Templates is the prompt triple used for one project type.
type Templates struct {
	Plan     string `yaml:"plan"`
	Tasks    string `yaml:"tasks"`
	Overview string `yaml:"overview"`
}

type catalogDoc struct {
	Default    Templates            `yaml:"default"`
	Types      map[string]Templates `yaml:"types"`
	Background string               `yaml:"background"`
}

//go:embed catalog.yaml
var catalogYAML []byte

var catalog = mustParseCatalog(catalogYAML)

func mustParseCatalog(data []byte) catalogDoc {
	doc, err := parseCatalog(data)
	if err != nil {
		panic(fmt.Sprintf("prompts: %v", err))
	}
	return doc
}

func parseCatalog(data []byte) (catalogDoc, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return catalogDoc{}, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := doc.Default.validate(); err != nil {
		return catalogDoc{}, fmt.Errorf("default templates: %w", err)
	}
	for name, t := range doc.Types {
		if err := t.validate(); err != nil {
			return catalogDoc{}, fmt.Errorf("templates for %q: %w", name, err)
		}
	}
	return doc, nil
}

func (t Templates) validate() error {
	switch {
	case strings.TrimSpace(t.Plan) == "":
		return fmt.Errorf("plan template is empty")
	case strings.TrimSpace(t.Tasks) == "":
		return fmt.Errorf("tasks template is empty")
	case strings.TrimSpace(t.Overview) == "":
		return fmt.Errorf("overview template is empty")
	}
	return nil
}

// Resolve returns the templates for projectType, or the default templates
// when the type is empty or unknown.
func Resolve(projectType string) Templates {
	if t, ok := catalog.Types[projectType]; ok {
		return t
	}
	return catalog.Default
}

// BackgroundKnowledge is the fixed block appended to overview prompts.
func BackgroundKnowledge() string {
	return catalog.Background
}

// Types lists the project types that have dedicated templates, sorted.
func Types() []string {
	names := make([]string, 0, len(catalog.Types))
	for name := range catalog.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
