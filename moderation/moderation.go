// Package moderation implements the community content policy: a fixed
// list of banned tokens matched whole-word and case-insensitively.
package moderation

import (
	"fmt"
	"regexp"
)

// DefaultForbiddenWords is the literal policy list carried over from
// the community guidelines. Note that it mixes spam markers with
// ordinary security vocabulary ("hack", "virus") even though the feed
// is a security forum; that mismatch is a known policy quirk and is
// kept as-is rather than second-guessed here.
var DefaultForbiddenWords = []string{
	// Spam & Scam
	"scam", "cheat", "hack", "phishing", "malware", "virus", "trojan",
	"link", "http", "www", ".com", ".net", ".org", "telegram", "whatsapp",
	"crypto", "bitcoin", "money now", "free money",
}

// Filter matches text against a banned-token list. Each token matches
// only as a whole word: "scammer" does not trip the "scam" token.
type Filter struct {
	tokens   []string
	patterns []*regexp.Regexp
}

func NewFilter(tokens []string) (*Filter, error) {
	f := &Filter{tokens: tokens}
	for _, token := range tokens {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("bad forbidden token %q: %w", token, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// MustNewFilter is NewFilter for static token lists.
func MustNewFilter(tokens []string) *Filter {
	f, err := NewFilter(tokens)
	if err != nil {
		panic(err)
	}
	return f
}

// Match returns the first banned token found in text.
func (f *Filter) Match(text string) (string, bool) {
	for i, re := range f.patterns {
		if re.MatchString(text) {
			return f.tokens[i], true
		}
	}
	return "", false
}

// Tokens returns the configured token list.
func (f *Filter) Tokens() []string {
	tokens := make([]string, len(f.tokens))
	copy(tokens, f.tokens)
	return tokens
}
