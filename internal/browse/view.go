// Package browse holds the view state behind the product list: the fetched
// catalog, the working set derived from it by search, the active page and
// the drag-to-reorder state.
//
// A View is owned by exactly one mounted main screen and is not safe for
// concurrent use.
package browse

import (
	"errors"
	"strings"

	"shopfront-cli/internal/model"
)

const PageSize = 10

var ErrIndexOutOfRange = errors.New("index out of range")

type View struct {
	catalog []model.Product
	working []model.Product
	query   string
	page    int

	drag dragState
}

func New() *View {
	return &View{page: 1}
}

// SetCatalog publishes a freshly fetched catalog and resets the working set
// to it. Query and page are left as they are.
func (v *View) SetCatalog(products []model.Product) {
	v.catalog = append([]model.Product(nil), products...)
	v.rederive()
}

func (v *View) Catalog() []model.Product { return v.catalog }

func (v *View) Items() []model.Product { return v.working }

func (v *View) Query() string { return v.query }

func (v *View) Page() int { return v.page }

// SetQuery re-derives the working set from the catalog, discarding any
// reorder. A non-empty query also jumps back to page 1; clearing the query
// keeps the current page.
func (v *View) SetQuery(q string) {
	v.query = q
	v.drag = dragState{}
	v.rederive()
	if q != "" {
		v.page = 1
	}
}

// LoadAll clears the query and restores the catalog order. The current page
// is kept, so it can point past the last page until another page is chosen.
func (v *View) LoadAll() {
	v.SetQuery("")
}

func (v *View) rederive() {
	if v.query == "" {
		v.working = append(make([]model.Product, 0, len(v.catalog)), v.catalog...)
		return
	}
	out := make([]model.Product, 0, len(v.catalog))
	for _, p := range v.catalog {
		if Matches(p, v.query) {
			out = append(out, p)
		}
	}
	v.working = out
}

// Matches reports whether the product title contains q, ignoring case.
func Matches(p model.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Title), strings.ToLower(q))
}

// SetPage selects page n. There is no bounds check: a page past the end
// simply shows nothing.
func (v *View) SetPage(n int) {
	v.page = n
	v.drag = dragState{}
}

func (v *View) TotalPages() int {
	return (len(v.working) + PageSize - 1) / PageSize
}

// Pages lists the selectable page numbers 1..TotalPages.
func (v *View) Pages() []int {
	n := v.TotalPages()
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Visible returns the slice of the working set shown on the current page.
func (v *View) Visible() []model.Product {
	start, end := v.pageBounds()
	return v.working[start:end]
}

func (v *View) pageBounds() (int, int) {
	if v.page < 1 {
		return 0, 0
	}
	// Compare in pages before multiplying so huge page numbers cannot overflow.
	if v.page > v.TotalPages() {
		return len(v.working), len(v.working)
	}
	start := (v.page - 1) * PageSize
	end := start + PageSize
	if end > len(v.working) {
		end = len(v.working)
	}
	return start, end
}

// MoveItem removes the item at from and reinserts it at to, shifting the
// items in between. Indices are relative to the whole working set.
func (v *View) MoveItem(from, to int) error {
	n := len(v.working)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	moveItem(v.working, from, to)
	return nil
}

func moveItem(xs []model.Product, from, to int) {
	if from == to {
		return
	}
	moved := xs[from]
	if from < to {
		copy(xs[from:to], xs[from+1:to+1])
	} else {
		copy(xs[to+1:from+1], xs[to:from])
	}
	xs[to] = moved
}
