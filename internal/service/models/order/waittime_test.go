package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitTime(t *testing.T) {
	at := func(hhmm string) time.Time {
		tm, err := time.Parse("2006-01-02 15:04", "2023-01-01 "+hhmm)
		require.NoError(t, err)

		return tm
	}

	cases := []struct {
		name       string
		start, end time.Time
		want       string
	}{
		{"minutes only", at("10:00"), at("10:30"), "30 minuto(s)"},
		{"hours and minutes", at("08:00"), at("10:45"), "2 hora(s) 45 minuto(s)"},
		{"same instant", at("10:00"), at("10:00"), "0 minuto(s)"},
		{"exactly one hour", at("09:00"), at("10:00"), "1 hora(s) 0 minuto(s)"},
		{"end before start", at("10:00"), at("09:00"), "0 minuto(s)"},
		{"partial minute truncated", at("10:00"), at("10:00").Add(59 * time.Second), "0 minuto(s)"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, WaitTime(c.start, c.end))
		})
	}
}
