package httpcontroller

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ewahlberg/pressgang/internal/backend"
)

// pageWindowSize is how many numbered links surround the current page.
const pageWindowSize = 2

// PageLink is one entry in the pagination strip. A zero Page renders as
// an ellipsis.
type PageLink struct {
	Page    int
	URL     string
	Current bool
}

// requestedPage reads ?page=N, clamping to 1 on absent or bad input.
func requestedPage(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pageLinks computes the numbered-link window for a paginated listing:
// first and last page always present, a window around the current page,
// ellipsis markers for the gaps.
func pageLinks(basePath, query string, p backend.Pagination) []PageLink {
	if p.TotalPages <= 1 {
		return nil
	}

	current := p.Page
	if current < 1 {
		current = 1
	}

	var links []PageLink
	appendPage := func(page int) {
		links = append(links, PageLink{
			Page:    page,
			URL:     pageURL(basePath, query, page),
			Current: page == current,
		})
	}

	lastAdded := 0
	for page := 1; page <= p.TotalPages; page++ {
		inWindow := page >= current-pageWindowSize && page <= current+pageWindowSize
		if page != 1 && page != p.TotalPages && !inWindow {
			continue
		}
		if lastAdded != 0 && page != lastAdded+1 {
			links = append(links, PageLink{}) // ellipsis
		}
		appendPage(page)
		lastAdded = page
	}
	return links
}
