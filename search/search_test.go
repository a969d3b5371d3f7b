package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cyberguard/search"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []search.Result
	}{
		{
			name:     "empty query matches nothing",
			query:    "   ",
			expected: nil,
		},
		{
			name:  "exact keyword",
			query: "community",
			expected: []search.Result{
				{File: "community.html", Title: "Community"},
			},
		},
		{
			name:  "substring of a keyword",
			query: "phish",
			expected: []search.Result{
				{File: "beware.html", Title: "Beware"},
			},
		},
		{
			name:  "case insensitive",
			query: "WAITLIST",
			expected: []search.Result{
				{File: "app.html", Title: "Mobile App"},
			},
		},
		{
			name:  "query matching several pages",
			query: "phone",
			expected: []search.Result{
				{File: "verify.html", Title: "Verify Number"},
				{File: "contact.html", Title: "Contact Us"},
			},
		},
		{
			name:     "no matches",
			query:    "zzz",
			expected: []search.Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := search.Search(search.DefaultSiteMap, tt.query)
			assert.Equal(t, tt.expected, results)
		})
	}
}
