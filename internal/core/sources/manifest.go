package sources

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/climate-explorer/internal/core"
	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

// Manifest declares extra sources in YAML:
//
//	sources:
//	  - key: iea_weo
//	    format: long_csv
//	    path: iea/
//	    provider: IEA
//	    default_region: Global
type Manifest struct {
	Sources []ManifestSource `yaml:"sources"`
}

// ManifestSource is one YAML source entry.
type ManifestSource struct {
	Key             string            `yaml:"key"`
	Label           string            `yaml:"label"`
	Format          string            `yaml:"format"`
	Path            string            `yaml:"path"`
	Required        bool              `yaml:"required"`
	Provider        string            `yaml:"provider"`
	Columns         map[string]string `yaml:"columns"`
	RequiredColumns []string          `yaml:"required_columns"`
	DefaultRegion   string            `yaml:"default_region"`
	DefaultScenario string            `yaml:"default_scenario"`
	SourceURL       string            `yaml:"source_url"`
	License         string            `yaml:"license"`
}

// LoadManifest reads a manifest file. Relative file paths inside it are
// resolved against the manifest's directory.
func LoadManifest(path string) ([]core.SourceSpec, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.NotFoundf("file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data, filepath.Dir(path))
}

// ParseManifest decodes manifest YAML. baseDir anchors relative paths.
func ParseManifest(data []byte, baseDir string) ([]core.SourceSpec, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, core.ValidationError{Field: "manifest", Message: err.Error()}
	}

	specs := make([]core.SourceSpec, 0, len(m.Sources))
	for i, src := range m.Sources {
		spec, err := src.spec(baseDir)
		if err != nil {
			return nil, fmt.Errorf("manifest source %d: %w", i+1, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (m ManifestSource) spec(baseDir string) (core.SourceSpec, error) {
	if m.Key == "" {
		return core.SourceSpec{}, core.ValidationError{Field: "key", Message: "is required"}
	}
	if m.Format == "" {
		return core.SourceSpec{}, core.ValidationError{Field: "format", Message: "is required"}
	}
	if m.Path == "" {
		return core.SourceSpec{}, core.ValidationError{Field: "path", Message: "is required"}
	}
	for field := range m.Columns {
		if !isField(field) {
			return core.SourceSpec{}, core.ValidationError{Field: "columns", Value: field, Message: "unknown field " + field}
		}
	}

	format := core.Format(m.Format)
	path := m.Path
	if format != core.FormatPostgres && baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	label := m.Label
	if label == "" {
		label = m.Key
	}

	return core.SourceSpec{
		Key:             m.Key,
		Label:           label,
		Format:          format,
		Path:            path,
		Required:        m.Required,
		Provider:        m.Provider,
		Columns:         m.Columns,
		RequiredColumns: m.RequiredColumns,
		DefaultRegion:   m.DefaultRegion,
		DefaultScenario: m.DefaultScenario,
		SourceURL:       m.SourceURL,
		License:         m.License,
	}, nil
}

func isField(name string) bool {
	for _, f := range schema.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Merge appends extra specs to base. An extra spec whose key matches a base
// spec replaces it in place.
func Merge(base, extra []core.SourceSpec) []core.SourceSpec {
	out := make([]core.SourceSpec, len(base), len(base)+len(extra))
	copy(out, base)

	pos := make(map[string]int, len(out))
	for i, s := range out {
		pos[s.Key] = i
	}
	for _, s := range extra {
		if i, ok := pos[s.Key]; ok {
			out[i] = s
			continue
		}
		pos[s.Key] = len(out)
		out = append(out, s)
	}
	return out
}
