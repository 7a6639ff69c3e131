package httpcontroller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ewahlberg/pressgang/internal/backend"
	"github.com/ewahlberg/pressgang/internal/errors"
	"github.com/ewahlberg/pressgang/internal/render"
)

// listPosts fetches a page of published posts for a public listing.
func (s *Server) listPosts(c echo.Context, opts backend.ListOptions) (*backend.PostList, error) {
	opts.Status = "published"
	if opts.PerPage == 0 {
		opts.PerPage = s.Settings.Site.PostsPerPage
	}
	return s.Backend.ListPosts(c.Request().Context(), opts)
}

// handleHomePage renders the latest published posts.
func (s *Server) handleHomePage(c echo.Context) error {
	list, err := s.listPosts(c, backend.ListOptions{Page: requestedPage(c)})
	if err != nil {
		return err
	}

	return s.renderPage(c, http.StatusOK, "index", s.Settings.Site.Title, ListPageData{
		Posts:      list.Items,
		Pagination: list.Pagination,
		PageLinks:  pageLinks("/", "", list.Pagination),
	})
}

// handlePostPage renders a single post with its transformed content and
// table of contents.
func (s *Server) handlePostPage(c echo.Context) error {
	slug := c.Param("slug")

	post, err := s.Backend.GetPost(c.Request().Context(), slug)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := render.Transform(post.ContentHTML)
	s.Metrics.Render.RecordTransform(time.Since(start), err)
	if err != nil {
		// A transform failure must not take the page down; fall back to
		// the backend HTML as delivered.
		s.webLogger.Error("content transform failed, serving raw backend HTML",
			"slug", slug, "error", err)
		return s.renderPage(c, http.StatusOK, "post", post.Title, PostPageData{
			Post:    post,
			Content: rawHTML(post.ContentHTML),
		})
	}

	return s.renderPage(c, http.StatusOK, "post", post.Title, PostPageData{
		Post:    post,
		Content: result.HTML,
		TOC:     result.TOC,
	})
}

// handleCategoriesPage renders the category index.
func (s *Server) handleCategoriesPage(c echo.Context) error {
	categories, err := s.Backend.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return s.renderPage(c, http.StatusOK, "categories", "Categories", categories)
}

// CategoryPageData pairs a taxonomy term with its post listing.
type CategoryPageData struct {
	Category *backend.Category
	Tag      *backend.Tag
	ListPageData
}

// handleCategoryPage renders the posts in one category.
func (s *Server) handleCategoryPage(c echo.Context) error {
	slug := c.Param("slug")

	category, err := s.Backend.GetCategory(c.Request().Context(), slug)
	if err != nil {
		return err
	}

	list, err := s.listPosts(c, backend.ListOptions{Page: requestedPage(c), Category: slug})
	if err != nil {
		return err
	}

	return s.renderPage(c, http.StatusOK, "category", category.Name, CategoryPageData{
		Category: category,
		ListPageData: ListPageData{
			Posts:      list.Items,
			Pagination: list.Pagination,
			PageLinks:  pageLinks("/categories/"+slug, "", list.Pagination),
			Heading:    category.Name,
		},
	})
}

// handleTagPage renders the posts carrying one tag.
func (s *Server) handleTagPage(c echo.Context) error {
	slug := c.Param("slug")

	tag, err := s.Backend.GetTag(c.Request().Context(), slug)
	if err != nil {
		return err
	}

	list, err := s.listPosts(c, backend.ListOptions{Page: requestedPage(c), Tag: slug})
	if err != nil {
		return err
	}

	return s.renderPage(c, http.StatusOK, "tag", tag.Name, CategoryPageData{
		Tag: tag,
		ListPageData: ListPageData{
			Posts:      list.Items,
			Pagination: list.Pagination,
			PageLinks:  pageLinks("/tags/"+slug, "", list.Pagination),
			Heading:    tag.Name,
		},
	})
}

// handleArchivePage renders the full chronological listing.
func (s *Server) handleArchivePage(c echo.Context) error {
	list, err := s.listPosts(c, backend.ListOptions{
		Page: requestedPage(c),
		Sort: "-publishedAt",
	})
	if err != nil {
		return err
	}

	return s.renderPage(c, http.StatusOK, "archive", "Archive", ListPageData{
		Posts:      list.Items,
		Pagination: list.Pagination,
		PageLinks:  pageLinks("/archive", "", list.Pagination),
	})
}

// handleSearchPage renders full-text search results; an empty query
// shows the search form only.
func (s *Server) handleSearchPage(c echo.Context) error {
	query := c.QueryParam("q")
	data := ListPageData{Query: query}

	if query != "" {
		list, err := s.Backend.SearchPosts(c.Request().Context(), query,
			requestedPage(c), s.Settings.Site.PostsPerPage)
		if err != nil {
			return err
		}
		data.Posts = list.Items
		data.Pagination = list.Pagination
		data.PageLinks = pageLinks("/search", query, list.Pagination)
	}

	return s.renderPage(c, http.StatusOK, "search", "Search", data)
}

// handleAboutPage renders the static about page.
func (s *Server) handleAboutPage(c echo.Context) error {
	return s.renderPage(c, http.StatusOK, "about", "About", nil)
}

// handleHTTPError renders the styled notfound and error pages. Backend
// not-found errors map to 404, auth errors to a login redirect.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Something went wrong"

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	case errors.Is(err, backend.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, backend.ErrUnauthorized), errors.Is(err, backend.ErrForbidden):
		// The backend rejected the session's token; send the user back
		// through login.
		_ = s.Auth.Sessions().SignOut(c)
		_ = c.Redirect(http.StatusFound, "/login")
		return
	}

	if status >= http.StatusInternalServerError {
		s.webLogger.Error("request failed",
			"path", c.Request().URL.Path, "status", status, "error", err)
	}

	templateName := "error"
	title := "Error"
	if status == http.StatusNotFound {
		templateName = "notfound"
		title = "Page Not Found"
	}

	if renderErr := s.renderPage(c, status, templateName, title, message); renderErr != nil {
		s.webLogger.Error("failed to render error page", "error", renderErr)
		_ = c.String(status, message)
	}
}
