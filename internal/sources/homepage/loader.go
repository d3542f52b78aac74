package homepage

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads a homepage bookmarks.yaml.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the bookmarks file.
func (l *Loader) Load() (BookmarksConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks file: %w", err)
	}
	return Parse(data)
}

// Parse decodes bookmarks.yaml content. Homepage template variables
// ({{HOMEPAGE_VAR_...}}) are replaced with empty strings first.
func Parse(data []byte) (BookmarksConfig, error) {
	data = stripTemplateVariables(data)

	var config BookmarksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	return config, nil
}

// stripTemplateVariables replaces {{...}} with an empty YAML string.
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}

// Source loads bookmarks.yaml as a catalog snapshot.
type Source struct {
	loader *Loader
	mapper *Mapper
}

func NewSource(filePath string) *Source {
	return &Source{loader: NewLoader(filePath), mapper: NewMapper()}
}

// Name is the provenance tag of the bookmarks the source produces.
func (s *Source) Name() string { return SourceName }

func (s *Source) Load(_ context.Context) (*domain.Snapshot, error) {
	config, err := s.loader.Load()
	if err != nil {
		return nil, err
	}
	return s.mapper.Map(config)
}
