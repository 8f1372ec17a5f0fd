package util

import (
	"strings"

	"golang.org/x/net/html"
)

// Teaser returns the plain text of an HTML document, cut at CutMoreStr and truncated to maxRunes.
// Scripts and styles are skipped.
func Teaser(htm string, maxRunes int) string {

	htm, _ = CutMore(htm)

	root, err := CreateDomTree(strings.NewReader(htm))
	if err != nil {
		return ""
	}

	var text = &strings.Builder{}
	_ = ForEachDomNode(root, func(n *html.Node) (bool, error) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return false, nil
			}
			if text.Len() > 0 && isBlock(n.Data) {
				text.WriteString(" ")
			}
		}
		return true, nil
	})

	return Trunc(strings.Join(strings.Fields(text.String()), " "), maxRunes)
}

func isBlock(tag string) bool {
	switch tag {
	case "blockquote", "br", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "p", "pre", "td", "tr":
		return true
	}
	return false
}
