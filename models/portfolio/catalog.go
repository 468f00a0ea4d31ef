// Package portfolio holds the site's static content. The catalog is parsed
// once and never mutated afterwards, so it can be shared between requests.
package portfolio

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/NomadCrew/portfolio-backend/types"
	"gopkg.in/yaml.v3"
)

// AllCategory is the filter matching every project.
const AllCategory = "All"

//go:embed catalog.yaml
var defaultCatalog []byte

type document struct {
	Profile         types.Profile          `yaml:"profile"`
	ContactChannels []types.ContactChannel `yaml:"contact_channels"`
	SocialLinks     []types.SocialLink     `yaml:"social_links"`
	Services        []types.Service        `yaml:"services"`
	Categories      []string               `yaml:"categories"`
	Projects        []types.Project        `yaml:"projects"`
}

// Catalog is the immutable portfolio content. Accessors return copies.
type Catalog struct {
	doc document
}

// Default parses the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or returns the embedded one when path is
// empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and checks a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &Catalog{doc: doc}, nil
}

func (d *document) validate() error {
	if strings.TrimSpace(d.Profile.Name) == "" {
		return fmt.Errorf("profile name is required")
	}

	known := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		if c == AllCategory {
			return fmt.Errorf("category %q is reserved", AllCategory)
		}
		if known[c] {
			return fmt.Errorf("duplicate category %q", c)
		}
		known[c] = true
	}

	ids := make(map[int]bool, len(d.Projects))
	for _, p := range d.Projects {
		if ids[p.ID] {
			return fmt.Errorf("duplicate project id %d", p.ID)
		}
		ids[p.ID] = true
		if !known[p.Category] {
			return fmt.Errorf("project %d has unknown category %q", p.ID, p.Category)
		}
	}
	return nil
}

func (c *Catalog) Profile() types.Profile {
	p := c.doc.Profile
	p.TechStack = append([]string(nil), p.TechStack...)
	return p
}

func (c *Catalog) ContactChannels() []types.ContactChannel {
	return append([]types.ContactChannel(nil), c.doc.ContactChannels...)
}

func (c *Catalog) SocialLinks() []types.SocialLink {
	return append([]types.SocialLink(nil), c.doc.SocialLinks...)
}

func (c *Catalog) Services() []types.Service {
	out := make([]types.Service, len(c.doc.Services))
	for i, s := range c.doc.Services {
		s.Features = append([]string(nil), s.Features...)
		out[i] = s
	}
	return out
}

// Projects returns every project in catalog order.
func (c *Catalog) Projects() []types.Project {
	return c.Filter(AllCategory)
}

// Filter returns the projects in category, or all of them for AllCategory.
// Unknown categories yield an empty, non-nil slice.
func (c *Catalog) Filter(category string) []types.Project {
	out := make([]types.Project, 0, len(c.doc.Projects))
	for _, p := range c.doc.Projects {
		if category == AllCategory || p.Category == category {
			out = append(out, copyProject(p))
		}
	}
	return out
}

// Featured returns the featured projects in catalog order.
func (c *Catalog) Featured() []types.Project {
	var out []types.Project
	for _, p := range c.doc.Projects {
		if p.Featured {
			out = append(out, copyProject(p))
		}
	}
	return out
}

// Categories returns AllCategory followed by the configured categories, each
// with its project count.
func (c *Catalog) Categories() []types.Category {
	out := make([]types.Category, 0, len(c.doc.Categories)+1)
	out = append(out, types.Category{Name: AllCategory, Count: len(c.doc.Projects)})
	for _, name := range c.doc.Categories {
		count := 0
		for _, p := range c.doc.Projects {
			if p.Category == name {
				count++
			}
		}
		out = append(out, types.Category{Name: name, Count: count})
	}
	return out
}

// HasCategory reports whether name is AllCategory or a configured category.
func (c *Catalog) HasCategory(name string) bool {
	if name == AllCategory {
		return true
	}
	for _, n := range c.doc.Categories {
		if n == name {
			return true
		}
	}
	return false
}

func copyProject(p types.Project) types.Project {
	p.Technologies = append([]string(nil), p.Technologies...)
	p.Metrics = append([]types.Metric(nil), p.Metrics...)
	return p
}
