package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToday(t *testing.T) {
	t.Run("should truncate to midnight in the given location", func(t *testing.T) {
		// given
		clock := &MockClock{FixedNow: time.Date(2024, 3, 14, 23, 30, 0, 0, time.UTC)}
		saoPaulo := time.FixedZone("BRT", -3*60*60)

		// when
		today := Today(clock, saoPaulo)

		// then
		assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, saoPaulo), today)
	})

	t.Run("should roll over to the next day ahead of UTC", func(t *testing.T) {
		// given
		clock := &MockClock{FixedNow: time.Date(2024, 3, 14, 23, 30, 0, 0, time.UTC)}
		tokyo := time.FixedZone("JST", 9*60*60)

		// when
		today := Today(clock, tokyo)

		// then
		assert.Equal(t, 15, today.Day())
	})
}
