package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuestToken(t *testing.T) {
	t.Run("issue -> parse", func(t *testing.T) {
		guest := Guest{ID: "guest-1", DisplayName: "Alice"}

		token, expiry, err := guest.GetJWT()
		assert.NoError(t, err)
		assert.True(t, expiry.After(time.Now()))

		parsed, err := ParseGuestToken(token)
		assert.NoError(t, err)
		assert.Equal(t, guest, parsed)
	})

	t.Run("garbage token fails", func(t *testing.T) {
		_, err := ParseGuestToken("not-a-token")
		assert.Error(t, err)
	})
}
