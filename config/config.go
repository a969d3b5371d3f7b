package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"cyberguard/contact"
	"cyberguard/moderation"
	"cyberguard/news"
	"cyberguard/search"
)

// TomlSource represents a news source configuration
type TomlSource struct {
	Name   string `toml:"name"`
	RSSURL string `toml:"rss_url"`
}

// TomlNews holds news proxy configuration
type TomlNews struct {
	Proxy   string       `toml:"proxy,omitempty"`
	Limit   int          `toml:"limit,omitempty"`
	Sources []TomlSource `toml:"sources,omitempty"`
}

// TomlContact holds the mail addresses the draft builders target
type TomlContact struct {
	Support string `toml:"support,omitempty"`
	Press   string `toml:"press,omitempty"`
}

// TomlPage represents a site search page entry
type TomlPage struct {
	File     string   `toml:"file"`
	Keywords []string `toml:"keywords"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	ForbiddenWords []string    `toml:"forbidden_words,omitempty"`
	News           TomlNews    `toml:"news"`
	Contact        TomlContact `toml:"contact"`
	Pages          []TomlPage  `toml:"pages,omitempty"`
}

// Default returns the built-in configuration the site ships with.
func Default() *TomlConfig {
	sources := make([]TomlSource, 0, len(news.DefaultSources))
	for _, src := range news.DefaultSources {
		sources = append(sources, TomlSource{Name: src.Name, RSSURL: src.RSSURL})
	}

	pages := make([]TomlPage, 0, len(search.DefaultSiteMap))
	for _, page := range search.DefaultSiteMap {
		pages = append(pages, TomlPage{File: page.File, Keywords: page.Keywords})
	}

	return &TomlConfig{
		ForbiddenWords: moderation.DefaultForbiddenWords,
		News: TomlNews{
			Proxy:   news.DefaultProxy,
			Limit:   news.DefaultLimit,
			Sources: sources,
		},
		Contact: TomlContact{
			Support: contact.DefaultSupportAddress,
			Press:   contact.DefaultPressAddress,
		},
		Pages: pages,
	}
}

// LoadConfig reads the TOML config at path. Fields left out of the
// file keep their defaults; an empty path returns the defaults as-is.
func LoadConfig(path string) (*TomlConfig, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var overrides TomlConfig
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if len(overrides.ForbiddenWords) > 0 {
		config.ForbiddenWords = overrides.ForbiddenWords
	}
	if overrides.News.Proxy != "" {
		config.News.Proxy = overrides.News.Proxy
	}
	if overrides.News.Limit > 0 {
		config.News.Limit = overrides.News.Limit
	}
	if len(overrides.News.Sources) > 0 {
		config.News.Sources = overrides.News.Sources
	}
	if overrides.Contact.Support != "" {
		config.Contact.Support = overrides.Contact.Support
	}
	if overrides.Contact.Press != "" {
		config.Contact.Press = overrides.Contact.Press
	}
	if len(overrides.Pages) > 0 {
		config.Pages = overrides.Pages
	}

	return config, nil
}

// Sources converts the configured news sources to domain values.
func (c *TomlConfig) Sources() []news.Source {
	sources := make([]news.Source, 0, len(c.News.Sources))
	for _, src := range c.News.Sources {
		sources = append(sources, news.Source{Name: src.Name, RSSURL: src.RSSURL})
	}
	return sources
}

// SiteMap converts the configured pages to domain values.
func (c *TomlConfig) SiteMap() []search.Page {
	pages := make([]search.Page, 0, len(c.Pages))
	for _, page := range c.Pages {
		pages = append(pages, search.Page{File: page.File, Keywords: page.Keywords})
	}
	return pages
}
