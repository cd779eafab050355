package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("Asia/Jakarta"))
	assert.True(t, IsValid("America/Sao_Paulo"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))
}

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("Not/AZone")
	assert.Equal(t, DefaultTimezone, loc.String())
}

func TestParseWallClock(t *testing.T) {
	t.Run("interprets in shop timezone", func(t *testing.T) {
		got, err := ParseWallClock("2025-03-14T10:30:00")
		require.NoError(t, err)

		assert.Equal(t, DefaultTimezone, got.Location().String())
		assert.Equal(t, 10, got.Hour())
		assert.Equal(t, 30, got.Minute())
		assert.Equal(t, time.March, got.Month())
	})

	t.Run("rejects offsets and garbage", func(t *testing.T) {
		_, err := ParseWallClock("2025-03-14T10:30:00Z")
		assert.Error(t, err)

		_, err = ParseWallClock("tomorrow")
		assert.Error(t, err)

		_, err = ParseWallClock("")
		assert.Error(t, err)
	})
}
