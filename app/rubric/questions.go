package rubric

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// PoolSize is the fixed number of candidate questions per category.
	PoolSize = 7
	// MajorityThreshold gates the projected-winners preview before voting
	// closes: at least 4 of the 7 evaluators must have voted.
	MajorityThreshold = 4
)

// Question is one candidate exam question within a category pool.
type Question struct {
	ID   int    `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Category is a question category with its fixed 7-question pool.
type Category struct {
	Key       string      `yaml:"key" json:"key"`
	Label     string      `yaml:"label" json:"label"`
	Questions []*Question `yaml:"questions" json:"questions"`
}

// QuestionPool is the full set of vote categories.
type QuestionPool struct {
	Categories []*Category `yaml:"categories" json:"categories"`
}

// LoadQuestions reads and validates the question pools from a YAML file.
func LoadQuestions(path string) (*QuestionPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}

	var pool QuestionPool
	if err := yaml.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("failed to parse questions file: %w", err)
	}

	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return &pool, nil
}

// Validate checks that every category carries exactly PoolSize questions
// with unique ids.
func (p *QuestionPool) Validate() error {
	if len(p.Categories) == 0 {
		return fmt.Errorf("question pool has no categories")
	}

	seen := make(map[string]bool)
	for _, category := range p.Categories {
		if category.Key == "" {
			return fmt.Errorf("category with empty key")
		}
		if seen[category.Key] {
			return fmt.Errorf("duplicate category key %q", category.Key)
		}
		seen[category.Key] = true

		if len(category.Questions) != PoolSize {
			return fmt.Errorf("category %q has %d questions, expected %d",
				category.Key, len(category.Questions), PoolSize)
		}

		ids := make(map[int]bool)
		for _, q := range category.Questions {
			if ids[q.ID] {
				return fmt.Errorf("category %q has duplicate question id %d", category.Key, q.ID)
			}
			ids[q.ID] = true
		}
	}
	return nil
}

// Category returns the category for a key.
func (p *QuestionPool) Category(key string) (*Category, bool) {
	for _, c := range p.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return nil, false
}

// HasQuestion reports whether the category pool contains the question id.
func (c *Category) HasQuestion(id int) bool {
	for _, q := range c.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
