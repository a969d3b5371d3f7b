// Package search answers site-wide search queries against a static
// page map.
package search

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Page associates a site page with the keywords that lead to it. The
// first keyword doubles as the page's display title.
type Page struct {
	File     string
	Keywords []string
}

// DefaultSiteMap lists every page on the site.
var DefaultSiteMap = []Page{
	{File: "index.html", Keywords: []string{"home", "main page", "digital realm", "cyberware", "protect"}},
	{File: "beware.html", Keywords: []string{"beware", "be aware", "phishing", "scams", "vulnerabilities"}},
	{File: "unhackable.html", Keywords: []string{"unhackable", "security tools", "protection", "software", "firewall"}},
	{File: "community.html", Keywords: []string{"community", "join", "forum", "discussion", "users"}},
	{File: "cybernews.html", Keywords: []string{"cybernews", "news", "articles", "reports", "updates"}},
	{File: "verify.html", Keywords: []string{"verify number", "check number", "verification", "phone"}},
	{File: "inquiries.html", Keywords: []string{"press inquiries", "media", "inquiries", "business", "partnership"}},
	{File: "app.html", Keywords: []string{"mobile app", "app download", "application", "device", "waitlist"}},
	{File: "contact.html", Keywords: []string{"contact us", "get in touch", "email", "phone", "location", "support"}},
}

// Result is a single matching page.
type Result struct {
	File  string `json:"file"`
	Title string `json:"title"`
}

// Search returns the pages whose keywords contain the query as a
// case-insensitive substring. An empty query matches nothing.
func Search(pages []Page, query string) []Result {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil
	}

	matches := lo.Filter(pages, func(page Page, _ int) bool {
		return lo.SomeBy(page.Keywords, func(keyword string) bool {
			return strings.Contains(keyword, normalized)
		})
	})

	return lo.Map(matches, func(page Page, _ int) Result {
		return Result{File: page.File, Title: titleCase(page.Keywords[0])}
	})
}

func titleCase(s string) string {
	prevLetter := false
	return strings.Map(func(r rune) rune {
		upper := !prevLetter && unicode.IsLetter(r)
		prevLetter = unicode.IsLetter(r) || unicode.IsDigit(r)
		if upper {
			return unicode.ToUpper(r)
		}
		return r
	}, s)
}
