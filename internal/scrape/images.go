// Package scrape pulls embedded-image references out of the rich-text HTML
// fields of a work item.
package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// ImageSources returns the src attribute of every <img> tag in the
// fragment, in document order, without deduplication: the same URL
// appearing twice is downloaded twice under two local names. This is a
// lexical scan; malformed markup yields whatever tags the tokenizer can
// still see, never an error. Empty input yields nil.
func ImageSources(fragment string) []string {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}

	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var sources []string
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return sources
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		token := tokenizer.Token()
		if token.Data != "img" {
			continue
		}
		for _, attr := range token.Attr {
			if attr.Key == "src" && attr.Val != "" {
				sources = append(sources, attr.Val)
			}
		}
	}
}
