package embedded

import (
	"embed"
	"io/fs"
)

// Prompt template specs, one YAML document per template
//
//go:embed data/prompts/*.yaml
var promptFS embed.FS

// Static web assets (scripts, styles)
//
//go:embed static
var staticFS embed.FS

// PromptSpecs returns the embedded prompt spec files keyed by file name
func PromptSpecs() (map[string][]byte, error) {
	entries, err := fs.ReadDir(promptFS, "data/prompts")
	if err != nil {
		return nil, err
	}

	specs := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := promptFS.ReadFile("data/prompts/" + entry.Name())
		if err != nil {
			return nil, err
		}
		specs[entry.Name()] = data
	}
	return specs, nil
}

// Static returns the static asset tree rooted at the static directory
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}
