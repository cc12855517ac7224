// Package genesis builds the default raw World Bible for a style from YAML
// style templates. Templates for every style are embedded in the binary and
// may be overridden from a content directory.
package genesis

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
)

//go:embed styles/*.yaml
var embeddedStyles embed.FS

// templateFile is the top-level YAML structure of a style template.
type templateFile struct {
	Style string           `yaml:"style"`
	World bible.WorldInput `yaml:"world"`
}

// Catalog maps each style to the raw world input generated for it.
type Catalog struct {
	templates map[bible.Style]bible.WorldInput
}

// LoadEmbedded loads the style templates compiled into this package.
//
// Postcondition: Returns a catalog with a template for every style in bible.Styles, or a non-nil error.
func LoadEmbedded() (*Catalog, error) {
	c := &Catalog{templates: make(map[bible.Style]bible.WorldInput, len(bible.Styles))}
	if err := c.loadFS(embeddedStyles, "styles"); err != nil {
		return nil, err
	}
	for _, s := range bible.Styles {
		if _, ok := c.templates[s]; !ok {
			return nil, fmt.Errorf("no embedded template for style %s", s)
		}
	}
	return c, nil
}

// LoadCatalog loads the embedded templates and then overlays every template
// found in dir. An empty dir yields the embedded catalog unchanged.
//
// Precondition: dir is empty or names a readable directory.
// Postcondition: Returns a catalog in which every template passes bible.ValidateWorld, or a non-nil error.
func LoadCatalog(dir string) (*Catalog, error) {
	c, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return c, nil
	}
	if err := c.loadFS(os.DirFS(dir), "."); err != nil {
		return nil, fmt.Errorf("loading style templates from %s: %w", dir, err)
	}
	return c, nil
}

func (c *Catalog) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading template directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading template %s: %w", name, err)
		}
		style, in, err := ParseTemplate(data)
		if err != nil {
			return fmt.Errorf("template %s: %w", name, err)
		}
		c.templates[style] = in
	}
	return nil
}

// ParseTemplate parses and validates one style template.
//
// Postcondition: Returns the template's style and world input, where the
// input passes bible.ValidateWorld, or a non-nil error.
func ParseTemplate(data []byte) (bible.Style, bible.WorldInput, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return "", bible.WorldInput{}, fmt.Errorf("parsing template YAML: %w", err)
	}
	style, err := bible.ParseStyle(file.Style)
	if err != nil {
		return "", bible.WorldInput{}, err
	}
	in := file.World
	if in.Metadata.Style == "" {
		in.Metadata.Style = string(style)
	}
	if in.Metadata.Style != string(style) {
		return "", bible.WorldInput{}, fmt.Errorf("template style %s does not match metadata.style %s", style, in.Metadata.Style)
	}
	if _, err := bible.ValidateWorld(in); err != nil {
		return "", bible.WorldInput{}, fmt.Errorf("validating %s template: %w", style, err)
	}
	return style, in, nil
}

// Styles returns the styles the catalog has templates for, sorted.
func (c *Catalog) Styles() []bible.Style {
	return slices.Sorted(maps.Keys(c.templates))
}

// WorldInput returns a fresh copy of the raw world input for style.
//
// Postcondition: Returns an INVALID_ENUM error when style has no template.
func (c *Catalog) WorldInput(style bible.Style) (bible.WorldInput, error) {
	in, ok := c.templates[style]
	if !ok {
		return bible.WorldInput{}, bible.NewError(bible.KindInvalidEnum, "metadata.style",
			"no world template for style %q", style)
	}
	return cloneInput(in), nil
}

func cloneInput(in bible.WorldInput) bible.WorldInput {
	out := in
	out.Metadata.Tags = slices.Clone(in.Metadata.Tags)
	out.Geography.KeyRegions = slices.Clone(in.Geography.KeyRegions)
	out.Geography.ClimateZones = slices.Clone(in.Geography.ClimateZones)
	out.Geography.NaturalResources = slices.Clone(in.Geography.NaturalResources)
	out.Geography.StrategicLocations = slices.Clone(in.Geography.StrategicLocations)
	out.Society.Races = slices.Clone(in.Society.Races)
	out.Society.Factions = slices.Clone(in.Society.Factions)
	out.Society.CulturalTraits = slices.Clone(in.Society.CulturalTraits)
	out.Society.Languages = slices.Clone(in.Society.Languages)
	out.Society.Religions = slices.Clone(in.Society.Religions)
	out.History.HistoricalEvents = slices.Clone(in.History.HistoricalEvents)
	out.History.Timeline = maps.Clone(in.History.Timeline)
	out.History.Prophecies = slices.Clone(in.History.Prophecies)
	out.History.LostKnowledge = slices.Clone(in.History.LostKnowledge)
	return out
}
