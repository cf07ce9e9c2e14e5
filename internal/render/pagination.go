package render

import "strconv"

// WindowRadius is how many page numbers are shown on each side of the
// current page.
const WindowRadius = 2

// ItemKind identifies an element of the pagination control
type ItemKind int

const (
	ItemPrev ItemKind = iota
	ItemPage
	ItemEllipsis
	ItemNext
)

// PageItem is one element of the pagination control. Page is the target
// page for buttons and 0 for ellipses.
type PageItem struct {
	Kind     ItemKind
	Page     int
	Label    string
	Active   bool
	Disabled bool
}

// Pagination is the rendered pagination control
type Pagination struct {
	Hidden  bool
	Current int
	Total   int
	Items   []PageItem
}

// Paginate lays out the control for the current page: Previous, a sliding
// window of page numbers with the first and last page pinned behind
// ellipses when the window does not reach them, then Next. With a single
// page the control is hidden.
func Paginate(current, total int) Pagination {
	if total <= 1 {
		return Pagination{Hidden: true, Current: 1, Total: max(total, 1)}
	}
	current = max(1, min(total, current))

	start := max(1, current-WindowRadius)
	end := min(total, current+WindowRadius)

	items := make([]PageItem, 0, end-start+7)
	items = append(items, PageItem{
		Kind:     ItemPrev,
		Page:     current - 1,
		Label:    "← Previous",
		Disabled: current == 1,
	})

	if start > 1 {
		items = append(items, pageButton(1, current))
		if start > 2 {
			items = append(items, PageItem{Kind: ItemEllipsis, Label: "…"})
		}
	}

	for i := start; i <= end; i++ {
		items = append(items, pageButton(i, current))
	}

	if end < total {
		if end < total-1 {
			items = append(items, PageItem{Kind: ItemEllipsis, Label: "…"})
		}
		items = append(items, pageButton(total, current))
	}

	items = append(items, PageItem{
		Kind:     ItemNext,
		Page:     current + 1,
		Label:    "Next →",
		Disabled: current == total,
	})

	return Pagination{Current: current, Total: total, Items: items}
}

func pageButton(page, current int) PageItem {
	return PageItem{
		Kind:   ItemPage,
		Page:   page,
		Label:  strconv.Itoa(page),
		Active: page == current,
	}
}

// Pages returns the page numbers shown as buttons, in order
func (p Pagination) Pages() []int {
	var pages []int
	for _, it := range p.Items {
		if it.Kind == ItemPage {
			pages = append(pages, it.Page)
		}
	}
	return pages
}

// Item returns the first item of the given kind
func (p Pagination) Item(kind ItemKind) (PageItem, bool) {
	for _, it := range p.Items {
		if it.Kind == kind {
			return it, true
		}
	}
	return PageItem{}, false
}
