package util

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNilNode = errors.New("HTML node is nil")

// CreateDomTree reads from a reader and parses the content into an html.Node.
// It returns a body node.
func CreateDomTree(bodyReader io.Reader) (*html.Node, error) {

	parsed, err := html.ParseFragment(
		io.MultiReader(
			strings.NewReader("<body>"),
			bodyReader,
			strings.NewReader("</body>"),
		),
		&html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Html,
			Data:     "html",
		},
	)
	if err != nil {
		return nil, err
	}
	return parsed[1], nil // [0] is head, [1] is body, we want the body node
}

// ForEachDomNode calls a task func for each node, including root.
// It recurses (pre-order) if and only if the task returns true.
func ForEachDomNode(root *html.Node, task func(*html.Node) (bool, error)) error {

	if root == nil {
		return ErrNilNode
	}

	recurse, err := task(root)
	if err != nil {
		return err
	}
	if !recurse {
		return nil
	}

	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if err = ForEachDomNode(child, task); err != nil {
			return err
		}
	}

	return nil
}
