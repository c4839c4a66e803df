package rubric

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadShippedRubric(t *testing.T) {
	r, err := Load("rubric.yaml")
	require.NoError(t, err)

	assert.Equal(t, float64(10), r.BonusMax)
	require.Len(t, r.Sections, 3)
	assert.Equal(t, float64(50), r.Sections[0].MaxScore)
	assert.Equal(t, float64(30), r.Sections[1].MaxScore)
	assert.Equal(t, float64(20), r.Sections[2].MaxScore)
	assert.Equal(t, float64(100), r.TotalMax())
	assert.Len(t, r.Items(), 10)

	// SectionID is stamped onto every item during load.
	for _, item := range r.Sections[0].Items {
		assert.Equal(t, r.Sections[0].ID, item.SectionID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateSectionSumMismatch(t *testing.T) {
	path := writeYAML(t, `
bonus_max: 10
sections:
  - id: a
    label: A
    max_score: 50
    items:
      - {id: a1, label: one, max_score: 10}
      - {id: a2, label: two, max_score: 10}
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match item sum")
}

func TestValidateDuplicateItemID(t *testing.T) {
	path := writeYAML(t, `
sections:
  - id: a
    label: A
    max_score: 20
    items:
      - {id: a1, label: one, max_score: 10}
      - {id: a1, label: dup, max_score: 10}
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate item id")
}

func TestValidateEmpty(t *testing.T) {
	path := writeYAML(t, `sections: []`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestItemLookups(t *testing.T) {
	r, err := Load("rubric.yaml")
	require.NoError(t, err)

	max, ok := r.ItemMax(r.Sections[1].Items[0].ID)
	require.True(t, ok)
	assert.Equal(t, r.Sections[1].Items[0].MaxScore, max)

	section, ok := r.SectionOf(r.Sections[2].Items[1].ID)
	require.True(t, ok)
	assert.Equal(t, r.Sections[2].ID, section)

	_, ok = r.ItemMax("missing")
	assert.False(t, ok)
	_, ok = r.SectionOf("missing")
	assert.False(t, ok)
}

func TestLoadShippedQuestions(t *testing.T) {
	pool, err := LoadQuestions("questions.yaml")
	require.NoError(t, err)

	require.Len(t, pool.Categories, 3)
	for _, category := range pool.Categories {
		assert.Len(t, category.Questions, PoolSize)
	}

	category, ok := pool.Category("stock_transfer")
	require.True(t, ok)
	assert.True(t, category.HasQuestion(1))
	assert.False(t, category.HasQuestion(99))

	_, ok = pool.Category("missing")
	assert.False(t, ok)
}

func TestValidateQuestionPoolSize(t *testing.T) {
	path := writeYAML(t, `
categories:
  - key: tax_risk
    label: T
    questions:
      - {id: 1, text: one}
      - {id: 2, text: two}
`)
	_, err := LoadQuestions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 7")
}

func TestValidateQuestionPoolDuplicateID(t *testing.T) {
	path := writeYAML(t, `
categories:
  - key: tax_risk
    label: T
    questions:
      - {id: 1, text: a}
      - {id: 1, text: b}
      - {id: 3, text: c}
      - {id: 4, text: d}
      - {id: 5, text: e}
      - {id: 6, text: f}
      - {id: 7, text: g}
`)
	_, err := LoadQuestions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate question id")
}
