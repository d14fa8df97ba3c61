package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-cvpager/internal/paginate"
)

// inlineAtoms are elements that cannot stand alone as a block. Runs of them
// (and of bare text) at the top level are wrapped in a paragraph.
var inlineAtoms = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Br: true, atom.Code: true,
	atom.Del: true, atom.Em: true, atom.I: true, atom.Img: true, atom.Kbd: true,
	atom.Mark: true, atom.S: true, atom.Small: true, atom.Span: true,
	atom.Strong: true, atom.Sub: true, atom.Sup: true, atom.Time: true, atom.U: true,
}

// SplitOption configures SplitBlocks.
type SplitOption func(*splitter)

// WithListItems splits top-level lists into one block per item. Each item
// keeps its list wrapper (and ordered lists keep their numbering) so items
// render the same on whichever page they land.
func WithListItems() SplitOption {
	return func(s *splitter) { s.listItems = true }
}

type splitter struct {
	listItems bool
}

// SplitBlocks splits an HTML fragment into block nodes. Every top-level
// element becomes a leaf holding its markup, so it moves between pages as a
// unit. A <section> becomes a group of its own children: its wrapper is
// dropped and its children paginate individually.
func SplitBlocks(fragment string, opts ...SplitOption) ([]paginate.Node, error) {
	var s splitter
	for _, opt := range opts {
		opt(&s)
	}

	nodes, err := parseFragment(fragment)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	return s.split(nodes)
}

func (s *splitter) split(nodes []*html.Node) ([]paginate.Node, error) {
	var out []paginate.Node
	var run []*html.Node

	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		markup, err := renderNodes(run)
		run = run[:0]
		if err != nil {
			return err
		}
		if strings.TrimSpace(markup) != "" {
			out = append(out, paginate.Leaf("<p>"+strings.TrimSpace(markup)+"</p>"))
		}
		return nil
	}

	for _, n := range nodes {
		switch {
		case n.Type == html.TextNode:
			if strings.TrimSpace(n.Data) != "" || len(run) > 0 {
				run = append(run, n)
			}
		case n.Type == html.ElementNode && inlineAtoms[n.DataAtom]:
			run = append(run, n)
		case n.Type == html.ElementNode && n.DataAtom == atom.Section:
			if err := flush(); err != nil {
				return nil, err
			}
			children, err := s.split(childNodes(n))
			if err != nil {
				return nil, err
			}
			out = append(out, paginate.Group(children...))
		case s.listItems && n.Type == html.ElementNode && (n.DataAtom == atom.Ul || n.DataAtom == atom.Ol):
			if err := flush(); err != nil {
				return nil, err
			}
			items, err := splitList(n)
			if err != nil {
				return nil, err
			}
			out = append(out, paginate.Group(items...))
		case n.Type == html.ElementNode:
			if err := flush(); err != nil {
				return nil, err
			}
			markup, err := renderNodes([]*html.Node{n})
			if err != nil {
				return nil, err
			}
			out = append(out, paginate.Leaf(markup))
		}
		// Comments and doctypes are dropped.
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// childNodes detaches n's children so they can be rendered on their own.
func childNodes(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		children = append(children, c)
		c = next
	}
	return children
}

// splitList returns one leaf per <li> of list, each wrapped in a shallow
// copy of the list element. Ordered items carry a start attribute with
// their original number.
func splitList(list *html.Node) ([]paginate.Node, error) {
	start := 1
	for _, attr := range list.Attr {
		if attr.Key == "start" {
			if n, err := strconv.Atoi(attr.Val); err == nil {
				start = n
			}
		}
	}

	var items []paginate.Node
	number := start
	for _, li := range childNodes(list) {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}

		wrapper := &html.Node{Type: html.ElementNode, DataAtom: list.DataAtom, Data: list.Data}
		for _, attr := range list.Attr {
			if attr.Key != "start" {
				wrapper.Attr = append(wrapper.Attr, attr)
			}
		}
		if list.DataAtom == atom.Ol && number != 1 {
			wrapper.Attr = append(wrapper.Attr, html.Attribute{Key: "start", Val: strconv.Itoa(number)})
		}
		wrapper.AppendChild(li)

		markup, err := renderNodes([]*html.Node{wrapper})
		if err != nil {
			return nil, err
		}
		items = append(items, paginate.Leaf(markup))
		number++
	}
	return items, nil
}
