// Package catalog is the fixed list of career roles the app knows about.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Skills struct {
	Essential  []string `yaml:"essential" json:"essential"`
	GoodToHave []string `yaml:"good_to_have" json:"goodToHave"`
}

type Role struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Skills      Skills   `yaml:"skills" json:"skills"`
	Questions   []string `yaml:"questions" json:"questions"`
}

type Resource struct {
	Title    string `yaml:"title" json:"title"`
	Platform string `yaml:"platform" json:"platform"`
	Skill    string `yaml:"skill" json:"skill"`
	Type     string `yaml:"type" json:"type"`
}

type Catalog struct {
	Roles     []Role     `yaml:"roles"`
	Resources []Resource `yaml:"resources"`

	byName map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog file; an empty path yields the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := validateCatalog(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	c.byName = make(map[string]int, len(c.Roles))
	for i, r := range c.Roles {
		c.byName[strings.ToLower(r.Name)] = i
	}
	return &c, nil
}

func validateCatalog(c *Catalog) error {
	if len(c.Roles) == 0 {
		return fmt.Errorf("no roles defined")
	}
	seen := make(map[string]bool, len(c.Roles))
	for i, r := range c.Roles {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return fmt.Errorf("role %d has no name", i)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("duplicate role %q", name)
		}
		seen[key] = true
		if len(r.Questions) == 0 {
			return fmt.Errorf("role %q has no seed questions", name)
		}
	}
	return nil
}

// HasRole reports whether name is a catalog role, ignoring case.
func (c *Catalog) HasRole(name string) bool {
	_, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func (c *Catalog) Role(name string) (Role, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Role{}, false
	}
	return c.Roles[i], true
}

func (c *Catalog) RoleNames() []string {
	names := make([]string, len(c.Roles))
	for i, r := range c.Roles {
		names[i] = r.Name
	}
	return names
}

// ResourcesFor returns curated resources whose skill appears in skills.
func (c *Catalog) ResourcesFor(skills []string) []Resource {
	want := make(map[string]bool, len(skills))
	for _, s := range skills {
		want[strings.ToLower(s)] = true
	}
	var out []Resource
	for _, r := range c.Resources {
		if want[strings.ToLower(r.Skill)] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Skill < out[j].Skill })
	return out
}
