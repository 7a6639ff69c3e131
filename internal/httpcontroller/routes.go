package httpcontroller

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Embed the assets and views directories.
//
//go:embed assets
var AssetsFs embed.FS

//go:embed views
var ViewsFs embed.FS

// PageRouteConfig defines the structure for each full page route.
type PageRouteConfig struct {
	Path         string
	TemplateName string
	Title        string
	Authorized   bool // Whether the route requires authentication
	Handler      echo.HandlerFunc
}

// initRoutes initializes the routes for the server.
func (s *Server) initRoutes() {
	s.initAuthRoutes()

	// Full page routes
	s.pageRoutes = map[string]PageRouteConfig{
		// Public site
		"/":                  {Path: "/", TemplateName: "index", Title: "Home", Handler: s.handleHomePage},
		"/posts/:slug":       {Path: "/posts/:slug", TemplateName: "post", Title: "Post", Handler: s.handlePostPage},
		"/categories":        {Path: "/categories", TemplateName: "categories", Title: "Categories", Handler: s.handleCategoriesPage},
		"/categories/:slug":  {Path: "/categories/:slug", TemplateName: "category", Title: "Category", Handler: s.handleCategoryPage},
		"/tags/:slug":        {Path: "/tags/:slug", TemplateName: "tag", Title: "Tag", Handler: s.handleTagPage},
		"/archive":           {Path: "/archive", TemplateName: "archive", Title: "Archive", Handler: s.handleArchivePage},
		"/search":            {Path: "/search", TemplateName: "search", Title: "Search", Handler: s.handleSearchPage},
		"/about":             {Path: "/about", TemplateName: "about", Title: "About", Handler: s.handleAboutPage},

		// Admin surface
		"/admin":                 {Path: "/admin", TemplateName: "admin-dashboard", Title: "Dashboard", Authorized: true, Handler: s.handleAdminDashboard},
		"/admin/posts":           {Path: "/admin/posts", TemplateName: "admin-posts", Title: "Posts", Authorized: true, Handler: s.handleAdminPosts},
		"/admin/posts/new":       {Path: "/admin/posts/new", TemplateName: "admin-post-form", Title: "New Post", Authorized: true, Handler: s.handleAdminPostNew},
		"/admin/posts/:id/edit":  {Path: "/admin/posts/:id/edit", TemplateName: "admin-post-form", Title: "Edit Post", Authorized: true, Handler: s.handleAdminPostEdit},
		"/admin/categories":      {Path: "/admin/categories", TemplateName: "admin-categories", Title: "Categories", Authorized: true, Handler: s.handleAdminCategories},
		"/admin/tags":            {Path: "/admin/tags", TemplateName: "admin-tags", Title: "Tags", Authorized: true, Handler: s.handleAdminTags},
		"/admin/media":           {Path: "/admin/media", TemplateName: "admin-media", Title: "Media Library", Authorized: true, Handler: s.handleAdminMedia},
		"/admin/users":           {Path: "/admin/users", TemplateName: "admin-users", Title: "Users", Authorized: true, Handler: s.handleAdminUsers},
		"/admin/users/new":       {Path: "/admin/users/new", TemplateName: "admin-user-form", Title: "New User", Authorized: true, Handler: s.handleAdminUserNew},
		"/admin/users/:id/edit":  {Path: "/admin/users/:id/edit", TemplateName: "admin-user-form", Title: "Edit User", Authorized: true, Handler: s.handleAdminUserEdit},
		"/admin/gitsync":         {Path: "/admin/gitsync", TemplateName: "admin-gitsync", Title: "Git Sync", Authorized: true, Handler: s.handleAdminGitSync},
	}

	for _, route := range s.pageRoutes {
		if route.Authorized {
			s.Echo.GET(route.Path, route.Handler, s.AuthMiddleware)
		} else {
			s.Echo.GET(route.Path, route.Handler)
		}
	}

	// Admin mutations (form POSTs, PRG)
	admin := s.Echo.Group("/admin", s.AuthMiddleware)
	admin.POST("/posts", s.handleAdminPostCreate)
	admin.POST("/posts/:id", s.handleAdminPostUpdate)
	admin.POST("/posts/:id/delete", s.handleAdminPostDelete)
	admin.POST("/categories", s.handleAdminCategoryCreate)
	admin.POST("/categories/:id", s.handleAdminCategoryUpdate)
	admin.POST("/categories/:id/delete", s.handleAdminCategoryDelete)
	admin.POST("/tags", s.handleAdminTagCreate)
	admin.POST("/tags/:id", s.handleAdminTagUpdate)
	admin.POST("/tags/:id/delete", s.handleAdminTagDelete)
	admin.POST("/media", s.handleAdminMediaUpload)
	admin.POST("/media/:id/delete", s.handleAdminMediaDelete)
	admin.POST("/users", s.handleAdminUserCreate)
	admin.POST("/users/:id", s.handleAdminUserUpdate)
	admin.POST("/users/:id/delete", s.handleAdminUserDelete)
	admin.POST("/gitsync/run", s.handleAdminGitSyncRun)
	admin.GET("/gitsync/status", s.handleAdminGitSyncStatus)

	// Theme switch and feed
	s.Echo.POST("/theme", s.handleThemeSwitch)
	s.Echo.GET("/feed.xml", s.handleFeed)

	// Prometheus metrics, restricted like the admin surface
	s.Echo.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()), s.AuthMiddleware)

	// Static assets from the embedded filesystem
	assetsFS, err := fs.Sub(AssetsFs, "assets")
	if err != nil {
		s.Echo.Logger.Fatal(err)
	}
	s.Echo.StaticFS("/assets", assetsFS)

	s.Echo.HTTPErrorHandler = s.handleHTTPError

	// Unknown paths get the styled 404 page
	echo.NotFoundHandler = func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "page not found")
	}
}
