package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientGallery(t *testing.T) {
	t.Run("creates gallery with generated token", func(t *testing.T) {
		gallery, err := NewClientGallery("Smith Wedding", "Ceremony and reception")

		require.NoError(t, err)
		assert.NotEmpty(t, gallery.ID)
		assert.Equal(t, "Smith Wedding", gallery.ClientName)
		assert.Equal(t, "Ceremony and reception", gallery.Description)
		assert.Len(t, gallery.Token, 64)
		assert.NotNil(t, gallery.Photos)
		assert.Empty(t, gallery.Photos)
		assert.WithinDuration(t, time.Now().UTC(), gallery.CreatedAt, time.Second*5)
	})

	t.Run("trims client name", func(t *testing.T) {
		gallery, err := NewClientGallery("  Smith Wedding  ", "")

		require.NoError(t, err)
		assert.Equal(t, "Smith Wedding", gallery.ClientName)
	})

	t.Run("rejects blank client name", func(t *testing.T) {
		_, err := NewClientGallery("   ", "desc")
		assert.ErrorIs(t, err, ErrGalleryClientRequired)
	})
}

func TestGenerateGalleryToken(t *testing.T) {
	t.Run("is 64 lowercase hex characters", func(t *testing.T) {
		token := GenerateGalleryToken()

		assert.Len(t, token, 64)
		for _, c := range token {
			assert.True(t, strings.ContainsRune("0123456789abcdef", c),
				"unexpected character %q in token", c)
		}
	})

	t.Run("does not repeat", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token := GenerateGalleryToken()
			assert.False(t, seen[token])
			seen[token] = true
		}
	})
}

func TestClientGallery_IsExpired(t *testing.T) {
	t.Run("no expiration never expires", func(t *testing.T) {
		gallery := &ClientGallery{}
		assert.False(t, gallery.IsExpired())
	})

	t.Run("future expiration is not expired", func(t *testing.T) {
		future := time.Now().UTC().Add(time.Hour)
		gallery := &ClientGallery{ExpiresAt: &future}
		assert.False(t, gallery.IsExpired())
	})

	t.Run("past expiration is expired", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Minute)
		gallery := &ClientGallery{ExpiresAt: &past}
		assert.True(t, gallery.IsExpired())
	})
}

func TestClientGallery_Password(t *testing.T) {
	t.Run("set and verify round trip", func(t *testing.T) {
		gallery := &ClientGallery{}

		require.NoError(t, gallery.SetPassword("sunset2024"))
		assert.True(t, gallery.HasPassword())
		assert.True(t, gallery.VerifyPassword("sunset2024"))
		assert.False(t, gallery.VerifyPassword("wrong"))
	})

	t.Run("rejects passwords shorter than four characters", func(t *testing.T) {
		gallery := &ClientGallery{}
		assert.ErrorIs(t, gallery.SetPassword("abc"), ErrGalleryPasswordTooShort)
		assert.False(t, gallery.HasPassword())
	})

	t.Run("verify fails when no password is set", func(t *testing.T) {
		gallery := &ClientGallery{}
		assert.False(t, gallery.VerifyPassword(""))
		assert.False(t, gallery.VerifyPassword("anything"))
	})

	t.Run("clear removes the requirement", func(t *testing.T) {
		gallery := &ClientGallery{}
		require.NoError(t, gallery.SetPassword("sunset2024"))

		gallery.ClearPassword()

		assert.False(t, gallery.HasPassword())
		assert.False(t, gallery.VerifyPassword("sunset2024"))
	})

	t.Run("hash never serializes", func(t *testing.T) {
		gallery, err := NewClientGallery("Client", "")
		require.NoError(t, err)
		require.NoError(t, gallery.SetPassword("sunset2024"))

		data, err := json.Marshal(gallery)
		require.NoError(t, err)
		assert.NotContains(t, string(data), gallery.PasswordHash)
		assert.NotContains(t, string(data), "passwordHash")
	})
}

func TestClientGallery_IsAssignedTo(t *testing.T) {
	userID := "user-1"

	t.Run("matches the assigned account", func(t *testing.T) {
		gallery := &ClientGallery{AssignedUserID: &userID}
		assert.True(t, gallery.IsAssignedTo("user-1"))
		assert.False(t, gallery.IsAssignedTo("user-2"))
	})

	t.Run("unassigned gallery matches nobody", func(t *testing.T) {
		gallery := &ClientGallery{}
		assert.False(t, gallery.IsAssignedTo("user-1"))
	})

	t.Run("empty user id never matches", func(t *testing.T) {
		empty := ""
		gallery := &ClientGallery{AssignedUserID: &empty}
		assert.False(t, gallery.IsAssignedTo(""))
	})
}

func TestCanonicalPhotoID(t *testing.T) {
	t.Run("normalizes numeric forms", func(t *testing.T) {
		assert.Equal(t, "7", CanonicalPhotoID("7"))
		assert.Equal(t, "7", CanonicalPhotoID("007"))
		assert.Equal(t, "7", CanonicalPhotoID(" 7 "))
		assert.Equal(t, "1712345678901", CanonicalPhotoID("1712345678901"))
	})

	t.Run("leaves non-numeric ids unchanged", func(t *testing.T) {
		assert.Equal(t, "abc-123", CanonicalPhotoID("abc-123"))
		assert.Equal(t, "", CanonicalPhotoID(""))
	})
}
