package fetch

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	spaceRe   = regexp.MustCompile(`[ \t]+`)
	blankRe   = regexp.MustCompile(`\n{2,}`)
	wsChunkRe = regexp.MustCompile(`\s+`)
)

// ExtractText parses HTML and returns only the visible textual content.
// Script, style, and noscript subtrees are dropped, the og:description meta
// value is prepended when present, and whitespace runs are collapsed.
// Malformed markup never fails: the tokenizer recovers what it can.
func ExtractText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var ogDesc string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "meta":
				if ogDesc == "" && attrVal(n, "property") == "og:description" {
					ogDesc = attrVal(n, "content")
				}
			}
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text != "" {
				b.WriteString(text)
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	combined := b.String()
	if ogDesc != "" {
		combined = ogDesc + "\n" + combined
	}

	combined = spaceRe.ReplaceAllString(combined, " ")
	combined = blankRe.ReplaceAllString(combined, "\n")
	return strings.TrimSpace(combined)
}

// ExtractTitle returns the content of the first <title> element, with
// interior whitespace collapsed.
func ExtractTitle(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var title string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(wsChunkRe.ReplaceAllString(n.FirstChild.Data, " "))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
