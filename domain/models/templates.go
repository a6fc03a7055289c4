package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TemplatePack declares the seed objects for models targeting a known
// system. Packs are YAML documents in the template directory; the pack
// whose System matches the target system's name (case-insensitive) is
// instantiated into all three layers at create-with-layers time.
type TemplatePack struct {
	System      string           `yaml:"system"`
	Description string           `yaml:"description"`
	Objects     []TemplateObject `yaml:"objects"`
}

// TemplateObject is one seed object definition.
type TemplateObject struct {
	Name       string              `yaml:"name"`
	Type       string              `yaml:"type"`
	Attributes []TemplateAttribute `yaml:"attributes"`
}

// TemplateAttribute is one seed attribute definition. Only the conceptual
// type is required; layer types left empty are derived by the type mapper.
type TemplateAttribute struct {
	Name           string `yaml:"name"`
	ConceptualType string `yaml:"conceptualType"`
	LogicalType    string `yaml:"logicalType"`
	PhysicalType   string `yaml:"physicalType"`
	Length         *int   `yaml:"length"`
	Nullable       *bool  `yaml:"nullable"`
	IsPrimaryKey   bool   `yaml:"isPrimaryKey"`
	IsForeignKey   bool   `yaml:"isForeignKey"`
}

// LoadTemplatePack finds the pack for systemName in dir. Returns (nil, nil)
// when the directory or a matching pack does not exist; model creation
// just skips seeding in that case.
func LoadTemplatePack(dir, systemName string) (*TemplatePack, error) {
	if dir == "" || systemName == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		pack, err := parseTemplatePack(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(pack.System, systemName) {
			return pack, nil
		}
	}

	return nil, nil
}

func parseTemplatePack(path string) (*TemplatePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template pack %s: %w", path, err)
	}

	pack := &TemplatePack{}
	if err := yaml.Unmarshal(data, pack); err != nil {
		return nil, fmt.Errorf("parse template pack %s: %w", path, err)
	}
	if pack.System == "" {
		return nil, fmt.Errorf("template pack %s: system is required", path)
	}
	return pack, nil
}
