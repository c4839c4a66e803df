// Package rubric loads the static configuration of the certification
// program: the weighted scoring rubric and the exam question pools.
// Both are defined in YAML files shipped with the application and are
// validated once at startup.
package rubric

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Item is a single scorable rubric item belonging to a section.
type Item struct {
	ID          string  `yaml:"id" json:"id"`
	SectionID   string  `yaml:"-" json:"section_id"`
	Label       string  `yaml:"label" json:"label"`
	MaxScore    float64 `yaml:"max_score" json:"max_score"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	SortOrder   int     `yaml:"sort_order" json:"sort_order"`
}

// Section is a scoring section (A/B/C convention: 50/30/20 points).
type Section struct {
	ID        string  `yaml:"id" json:"id"`
	Label     string  `yaml:"label" json:"label"`
	Method    string  `yaml:"method" json:"method"`
	MaxScore  float64 `yaml:"max_score" json:"max_score"`
	SortOrder int     `yaml:"sort_order" json:"sort_order"`
	Items     []*Item `yaml:"items" json:"items"`
}

// Rubric is the full set of sections plus the bonus range for a period.
type Rubric struct {
	BonusMax float64    `yaml:"bonus_max" json:"bonus_max"`
	Sections []*Section `yaml:"sections" json:"sections"`
}

// Load reads and validates a rubric definition from a YAML file.
func Load(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric file: %w", err)
	}

	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse rubric file: %w", err)
	}

	for _, section := range r.Sections {
		for _, item := range section.Items {
			item.SectionID = section.ID
		}
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the structural invariants of the rubric. The sum of each
// section's item maxima must equal the section's max score; callers rely on
// this when computing subtotals.
func (r *Rubric) Validate() error {
	if len(r.Sections) == 0 {
		return fmt.Errorf("rubric has no sections")
	}
	if r.BonusMax < 0 {
		return fmt.Errorf("bonus_max must not be negative")
	}

	seenSections := make(map[string]bool)
	seenItems := make(map[string]bool)

	for _, section := range r.Sections {
		if section.ID == "" {
			return fmt.Errorf("section with empty id")
		}
		if seenSections[section.ID] {
			return fmt.Errorf("duplicate section id %q", section.ID)
		}
		seenSections[section.ID] = true

		if len(section.Items) == 0 {
			return fmt.Errorf("section %q has no items", section.ID)
		}

		var itemSum float64
		for _, item := range section.Items {
			if item.ID == "" {
				return fmt.Errorf("section %q has an item with empty id", section.ID)
			}
			if seenItems[item.ID] {
				return fmt.Errorf("duplicate item id %q", item.ID)
			}
			seenItems[item.ID] = true

			if item.MaxScore <= 0 {
				return fmt.Errorf("item %q max_score must be positive", item.ID)
			}
			itemSum += item.MaxScore
		}

		if itemSum != section.MaxScore {
			return fmt.Errorf("section %q max_score %.0f does not match item sum %.0f",
				section.ID, section.MaxScore, itemSum)
		}
	}
	return nil
}

// Items returns all rubric items in section then sort order.
func (r *Rubric) Items() []*Item {
	var items []*Item
	for _, section := range r.Sections {
		items = append(items, section.Items...)
	}
	return items
}

// ItemMax returns the maximum score for an item id.
func (r *Rubric) ItemMax(itemID string) (float64, bool) {
	for _, section := range r.Sections {
		for _, item := range section.Items {
			if item.ID == itemID {
				return item.MaxScore, true
			}
		}
	}
	return 0, false
}

// SectionOf returns the owning section id for an item id.
func (r *Rubric) SectionOf(itemID string) (string, bool) {
	for _, section := range r.Sections {
		for _, item := range section.Items {
			if item.ID == itemID {
				return section.ID, true
			}
		}
	}
	return "", false
}

// TotalMax is the combined maximum of all sections, excluding the bonus.
func (r *Rubric) TotalMax() float64 {
	var total float64
	for _, section := range r.Sections {
		total += section.MaxScore
	}
	return total
}
