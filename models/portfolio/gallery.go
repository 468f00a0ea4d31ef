package portfolio

import "github.com/NomadCrew/portfolio-backend/types"

// PageSize is how many projects the gallery shows initially and adds on
// every "load more".
const PageSize = 6

// Gallery is the filter and paging state of the project grid.
type Gallery struct {
	catalog *Catalog
	filter  string
	visible int
}

// NewGallery starts on AllCategory with one page visible.
func NewGallery(c *Catalog) *Gallery {
	return &Gallery{catalog: c, filter: AllCategory, visible: PageSize}
}

// RestoreGallery rebuilds a gallery from a filter and a visible count sent
// back by a client. Counts below one page are raised to one page and counts
// past the filtered total are capped.
func RestoreGallery(c *Catalog, filter string, visible int) *Gallery {
	g := NewGallery(c)
	if filter != "" {
		g.filter = filter
	}
	if visible > PageSize {
		g.visible = min(visible, max(len(c.Filter(g.filter)), PageSize))
	}
	return g
}

// SetFilter switches the category and resets paging. Selecting the current
// filter again changes nothing.
func (g *Gallery) SetFilter(category string) {
	if category == g.filter {
		return
	}
	g.filter = category
	g.visible = PageSize
}

// LoadMore reveals up to PageSize more projects, capped at the filtered total.
func (g *Gallery) LoadMore() {
	g.visible = min(g.visible+PageSize, len(g.catalog.Filter(g.filter)))
}

// Filter returns the active category.
func (g *Gallery) Filter() string { return g.filter }

// Visible returns how many projects may be displayed.
func (g *Gallery) Visible() int { return g.visible }

// Displayed returns the projects currently on screen.
func (g *Gallery) Displayed() []types.Project {
	filtered := g.catalog.Filter(g.filter)
	if len(filtered) > g.visible {
		filtered = filtered[:g.visible]
	}
	return filtered
}

// Remaining returns how many projects the next LoadMore would add.
func (g *Gallery) Remaining() int {
	rest := len(g.catalog.Filter(g.filter)) - g.visible
	if rest <= 0 {
		return 0
	}
	if rest > PageSize {
		return PageSize
	}
	return rest
}

// Page summarizes the gallery for API responses.
func (g *Gallery) Page() types.GalleryPage {
	filtered := g.catalog.Filter(g.filter)
	shown := filtered
	if len(shown) > g.visible {
		shown = shown[:g.visible]
	}
	return types.GalleryPage{
		Filter:    g.filter,
		Projects:  shown,
		Total:     len(filtered),
		Visible:   len(shown),
		HasMore:   g.visible < len(filtered),
		Remaining: g.Remaining(),
	}
}
