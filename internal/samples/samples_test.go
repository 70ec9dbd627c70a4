package samples

import (
	"eventdesk/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	drafts, err := Load()
	require.NoError(t, err)
	require.Len(t, drafts, 4)

	assert.Equal(t, models.Draft{
		Title:       "Music Festival",
		Date:        "2026-04-10",
		Category:    models.CategoryEntertainment,
		Description: "Outdoor live music festival.",
	}, drafts[0])
	for _, d := range drafts {
		assert.True(t, models.KnownCategory(d.Category), d.Category)
		_, ok := models.Event{Date: d.Date}.ParsedDate()
		assert.True(t, ok, d.Date)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("title: [unterminated"))
	assert.Error(t, err)
}
