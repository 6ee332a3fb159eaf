package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitorFromAddr(t *testing.T) {
	t.Run("strips the port from host:port", func(t *testing.T) {
		assert.Equal(t, VisitorID("203.0.113.7"), VisitorFromAddr("203.0.113.7:49152"))
	})

	t.Run("handles bracketed IPv6", func(t *testing.T) {
		assert.Equal(t, VisitorID("2001:db8::1"), VisitorFromAddr("[2001:db8::1]:8080"))
	})

	t.Run("passes through a bare address", func(t *testing.T) {
		assert.Equal(t, VisitorID("203.0.113.7"), VisitorFromAddr("203.0.113.7"))
	})

	t.Run("falls back for an empty address", func(t *testing.T) {
		assert.Equal(t, VisitorID("unknown"), VisitorFromAddr(""))
	})
}

func TestNumericPhotoID(t *testing.T) {
	t.Run("parses numeric forms", func(t *testing.T) {
		n := NumericPhotoID("007")
		require.NotNil(t, n)
		assert.Equal(t, int64(7), *n)
	})

	t.Run("non-numeric ids are nil", func(t *testing.T) {
		assert.Nil(t, NumericPhotoID("abc-123"))
		assert.Nil(t, NumericPhotoID(""))
	})
}

func TestGalleryToggleResult_JSONShape(t *testing.T) {
	t.Run("photoId serializes as a number", func(t *testing.T) {
		data, err := json.Marshal(GalleryToggleResult{
			Likes:   3,
			IsLiked: true,
			PhotoID: NumericPhotoID("101"),
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"likes":3,"isLiked":true,"photoId":101}`, string(data))
	})

	t.Run("legacy non-numeric id serializes as null", func(t *testing.T) {
		data, err := json.Marshal(GalleryToggleResult{PhotoID: NumericPhotoID("old-id")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"likes":0,"isLiked":false,"photoId":null}`, string(data))
	})
}
