package render

import (
	"strings"

	"golang.org/x/net/html"
)

// OutlineEntry is one heading pulled out of rendered HTML.
type OutlineEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Outline parses an HTML fragment and returns its headings in document
// order. Malformed markup is tolerated; the html parser repairs what it
// can and we take whatever headings survive.
func Outline(fragment string) ([]OutlineEntry, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}
	var entries []OutlineEntry
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				text := strings.TrimSpace(textContent(n))
				if text != "" {
					entries = append(entries, OutlineEntry{Level: level, Text: text})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return entries, nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
