package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type box struct {
	top      int
	height   int
	rendered bool
}

// Elements that never produce a box.
var metadataElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Title:    true,
	atom.Meta:     true,
	atom.Link:     true,
}

var positionedValues = map[string]bool{
	"relative": true,
	"absolute": true,
	"fixed":    true,
	"sticky":   true,
}

// layout returns the box for n, recomputing the whole layout if the tree or
// a display-affecting style changed. Must hold d.mu.
func (d *Document) layout(n *html.Node) box {
	if d.dirty {
		d.relayout()
	}
	return d.boxes[n]
}

func (d *Document) relayout() {
	boxes := make(map[*html.Node]box, len(d.boxes))
	y := 0

	var walk func(n *html.Node, parentRendered bool)
	walk = func(n *html.Node, parentRendered bool) {
		switch n.Type {
		case html.TextNode:
			if parentRendered && strings.TrimSpace(n.Data) != "" {
				y += d.lineHeight
			}
		case html.ElementNode:
			rendered := parentRendered && d.producesBox(n)
			top := y
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, rendered)
			}
			if rendered {
				if minHeight := pixels(d.styleOf(n, "height")); y-top < minHeight {
					y = top + minHeight
				}
			}
			boxes[n] = box{top: top, height: y - top, rendered: rendered}
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, parentRendered)
			}
		}
	}

	if root := d.doc.Get(0); root != nil {
		walk(root, true)
	}

	d.boxes = boxes
	d.dirty = false
}

func (d *Document) producesBox(n *html.Node) bool {
	if metadataElements[n.DataAtom] {
		return false
	}
	if _, hidden := attrValue(n, "hidden"); hidden {
		return false
	}
	return strings.TrimSpace(strings.ToLower(d.styleOf(n, "display"))) != "none"
}

// offsetParent follows the browser rule: the nearest positioned ancestor,
// or body. The root elements and unrendered elements have none.
// Must hold d.mu.
func (d *Document) offsetParent(n *html.Node) *html.Node {
	if n.DataAtom == atom.Body || n.DataAtom == atom.Html {
		return nil
	}
	if !d.layout(n).rendered {
		return nil
	}
	for p := n.Parent; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if p.DataAtom == atom.Body {
			return p
		}
		if positionedValues[strings.ToLower(d.styleOf(p, "position"))] {
			return p
		}
	}
	return nil
}

// visualTop is the layout top shifted by every translateY on the element and
// its ancestors. Must hold d.mu.
func (d *Document) visualTop(n *html.Node) int {
	top := d.layout(n).top
	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		top += translateY(d.styleOf(p, "transform"))
	}
	return top
}
