package event_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/event"
)

func TestParseTimestamp(t *testing.T) {
	line := "[Sun Sep 18 15:22:41 2022] You have entered East Commonlands."

	local, utc, err := event.ParseTimestamp(line)
	require.NoError(t, err)

	want := time.Date(2022, time.September, 18, 15, 22, 41, 0, time.Local)
	assert.True(t, local.Equal(want), "local = %v, want %v", local, want)
	assert.True(t, utc.Equal(want.UTC()))
	assert.Equal(t, time.UTC, utc.Location())
}

func TestParseTimestamp_Invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"too short", "[Sun Sep 18]"},
		{"garbage prefix", "XSun Sep 18 15:22:41 2022X You say, 'hi'"},
		{"no brackets", "Sun Sep 18 15:22:41 2022  You say, 'hi'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := event.ParseTimestamp(tt.line)
			assert.ErrorIs(t, err, event.ErrNoTimestamp)
		})
	}
}

func TestStripTimestamp(t *testing.T) {
	body, ok := event.StripTimestamp("[Sun Sep 18 15:22:41 2022] You say, 'hi'")
	require.True(t, ok)
	assert.Equal(t, "You say, 'hi'", body)

	_, ok = event.StripTimestamp("short")
	assert.False(t, ok)
}
