package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlbum(t *testing.T) {
	t.Run("derives the slug from the name when omitted", func(t *testing.T) {
		album, err := NewAlbum("BK Veldlopen 2025", "")

		require.NoError(t, err)
		assert.Equal(t, "BK Veldlopen 2025", album.Name)
		assert.Equal(t, "bk-veldlopen-2025", album.Slug)
	})

	t.Run("keeps an explicit slug", func(t *testing.T) {
		album, err := NewAlbum("Track & Field", "atletiek")

		require.NoError(t, err)
		assert.Equal(t, "atletiek", album.Slug)
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		_, err := NewAlbum("   ", "")
		assert.ErrorIs(t, err, ErrAlbumNameRequired)
	})
}

func TestSanitizeSlug(t *testing.T) {
	t.Run("lowercases and collapses punctuation", func(t *testing.T) {
		assert.Equal(t, "summer-2024", SanitizeSlug("Summer  2024!"))
		assert.Equal(t, "a-b-c", SanitizeSlug("A/B/C"))
	})

	t.Run("trims leading and trailing separators", func(t *testing.T) {
		assert.Equal(t, "hello", SanitizeSlug("--Hello--"))
	})

	t.Run("caps the length", func(t *testing.T) {
		long := strings.Repeat("a", 250)
		assert.Len(t, SanitizeSlug(long), 100)
	})
}

func TestChildSlug(t *testing.T) {
	assert.Equal(t, "atletiek/bk-veldlopen-2025", ChildSlug("atletiek", "BK Veldlopen 2025"))
}
