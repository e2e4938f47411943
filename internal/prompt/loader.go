package prompt

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/Conceptual-Machines/podcast-automate/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// requiredTemplates must be present in every registry the service runs with
var requiredTemplates = []string{GenerateContentAssets, SuggestPodcastTitles, AdaptContentTone}

// ParseSpec decodes a single YAML prompt spec
func ParseSpec(data []byte) (Spec, error) {
	var s Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// LoadEmbeddedSpecs parses every prompt spec shipped with the binary
func LoadEmbeddedSpecs() ([]Spec, error) {
	files, err := embedded.PromptSpecs()
	if err != nil {
		return nil, fmt.Errorf("read embedded prompts: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]Spec, 0, len(files))
	for _, name := range names {
		s, err := ParseSpec(files[name])
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// LoadDefaultRegistry builds the registry from the embedded specs and checks
// that every flow has its template
func LoadDefaultRegistry() (*Registry, error) {
	specs, err := LoadEmbeddedSpecs()
	if err != nil {
		return nil, err
	}

	r, err := NewRegistry(specs...)
	if err != nil {
		return nil, err
	}

	for _, name := range requiredTemplates {
		if _, err := r.Get(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}
