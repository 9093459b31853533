package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SubCategoryGroup is one subcategory inside a category. Items, where
// present, is the closed list of valid leaf values for this subcategory.
type SubCategoryGroup struct {
	Name  string   `json:"name"`
	Items []string `json:"items,omitempty"`
}

// Category is one top-level node of the classification tree.
type Category struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Icon          string             `json:"icon,omitempty"`
	SubCategories []SubCategoryGroup `json:"sub_categories"`
}

// Taxonomy is the full category tree. It is loaded once at startup and
// never mutated afterwards.
type Taxonomy struct {
	Categories []Category `json:"categories"`
}

// LoadTaxonomy reads the taxonomy tree from a JSON file.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var t Taxonomy
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}

	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy file %s contains no categories", path)
	}

	return &t, nil
}

// CategoryNames returns the names of all top-level categories in tree order.
func (t *Taxonomy) CategoryNames() []string {
	names := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		names = append(names, c.Name)
	}
	return names
}

// FindCategory returns the category whose name matches (case-insensitive,
// substring in either direction), or nil.
func (t *Taxonomy) FindCategory(name string) *Category {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}

	for i := range t.Categories {
		if strings.ToLower(t.Categories[i].Name) == name {
			return &t.Categories[i]
		}
	}

	for i := range t.Categories {
		catLower := strings.ToLower(t.Categories[i].Name)
		if strings.Contains(catLower, name) || strings.Contains(name, catLower) {
			return &t.Categories[i]
		}
	}

	return nil
}

// FindSubCategory returns the named subcategory group within a category, or nil.
func (c *Category) FindSubCategory(name string) *SubCategoryGroup {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range c.SubCategories {
		if strings.ToLower(c.SubCategories[i].Name) == name {
			return &c.SubCategories[i]
		}
	}
	return nil
}

// HasItem reports whether item is a member of the subcategory's item list
// (exact, case-insensitive).
func (g *SubCategoryGroup) HasItem(item string) bool {
	item = strings.ToLower(strings.TrimSpace(item))
	for _, it := range g.Items {
		if strings.ToLower(it) == item {
			return true
		}
	}
	return false
}
