package feed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cyberguard/feed"
)

func TestRelativeAge(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected string
	}{
		{
			name:     "under a minute",
			elapsed:  45 * time.Second,
			expected: "Just now",
		},
		{
			name:     "one minute singular",
			elapsed:  90 * time.Second,
			expected: "1 minute ago",
		},
		{
			name:     "several minutes",
			elapsed:  5 * time.Minute,
			expected: "5 minutes ago",
		},
		{
			name:     "one hour singular",
			elapsed:  time.Hour + 10*time.Minute,
			expected: "1 hour ago",
		},
		{
			name:     "two hours",
			elapsed:  7200 * time.Second,
			expected: "2 hours ago",
		},
		{
			name:     "one day singular",
			elapsed:  25 * time.Hour,
			expected: "1 day ago",
		},
		{
			name:     "several days",
			elapsed:  6 * 24 * time.Hour,
			expected: "6 days ago",
		},
		{
			name:     "over a week becomes absolute",
			elapsed:  9 * 24 * time.Hour,
			expected: "Aug 19, 2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := feed.RelativeAge(now.Add(-tt.elapsed), now)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNewSessionID(t *testing.T) {
	a := feed.NewSessionID()
	b := feed.NewSessionID()

	assert.Regexp(t, `^sess-\d+-[a-z0-9]{7}$`, a)
	assert.NotEqual(t, a, b)
}
