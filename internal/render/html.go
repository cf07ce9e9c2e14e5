package render

import (
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The HTML backend builds node trees and lets html.Render escape every
// text node, so titles and authors can never become markup.

func element(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withAttr(n *html.Node, key, val string) *html.Node {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}

// GridNode builds the markup for a card grid
func GridNode(g Grid) *html.Node {
	root := element(atom.Div, "book-grid")
	if g.Summary != "" {
		root.AppendChild(element(atom.P, "search-summary", text(g.Summary)))
	}
	if g.Empty() {
		root.AppendChild(element(atom.P, "no-results", text(g.Placeholder)))
		return root
	}

	for _, c := range g.Cards {
		card := withAttr(element(atom.Div, "book-card"), "data-book-id", strconv.Itoa(c.ID))
		card.AppendChild(element(atom.H3, "book-title", text(c.Title.String())))
		card.AppendChild(element(atom.P, "book-author", text("by "+c.Author.String())))

		meta := element(atom.Div, "book-meta", element(atom.Span, "", text(c.IDLabel)))
		if c.Words != "" {
			meta.AppendChild(element(atom.Span, "", text(c.Words)))
		}
		card.AppendChild(meta)

		if c.Matches != "" {
			card.AppendChild(element(atom.Span, "occurrences-badge", text(c.Matches)))
		}
		root.AppendChild(card)
	}
	return root
}

// PaginationNode builds the markup for a pagination control. A hidden
// control renders as an empty container.
func PaginationNode(p Pagination) *html.Node {
	root := element(atom.Div, "pagination")
	if p.Hidden {
		return root
	}

	for _, it := range p.Items {
		if it.Kind == ItemEllipsis {
			root.AppendChild(element(atom.Span, "pagination-ellipsis", text(it.Label)))
			continue
		}

		class := "pagination-btn"
		if it.Active {
			class += " active"
		}
		btn := withAttr(element(atom.Button, class, text(it.Label)), "data-page", strconv.Itoa(it.Page))
		if it.Disabled {
			btn = withAttr(btn, "disabled", "")
		}
		root.AppendChild(btn)
	}
	return root
}

// DetailNode builds the markup for a book detail panel
func DetailNode(d DetailPanel) *html.Node {
	root := element(atom.Div, "book-details")
	root.AppendChild(element(atom.H2, "", text(d.Title.String())))
	for _, f := range d.Fields {
		root.AppendChild(element(atom.P, "",
			element(atom.Strong, "", text(f.Label+":")),
			text(" "+f.Value.String()),
		))
	}
	return root
}

// WriteResultsHTML writes a results grid followed by its pagination control
func WriteResultsHTML(w io.Writer, g Grid, p Pagination) error {
	for _, n := range []*html.Node{GridNode(g), PaginationNode(p)} {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteDetailHTML writes a detail panel followed by its recommendations
func WriteDetailHTML(w io.Writer, d DetailPanel, recs Grid) error {
	section := element(atom.Section, "recommendations",
		element(atom.H3, "", text("Recommended Books")),
		GridNode(recs),
	)
	for _, n := range []*html.Node{DetailNode(d), section} {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
