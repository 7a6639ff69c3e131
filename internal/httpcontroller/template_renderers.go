package httpcontroller

import (
	"bytes"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/ewahlberg/pressgang/internal/backend"
	"github.com/ewahlberg/pressgang/internal/conf"
	"github.com/ewahlberg/pressgang/internal/render"
	"github.com/ewahlberg/pressgang/internal/security"
)

// RenderData is the data envelope every page template receives.
type RenderData struct {
	C         echo.Context
	Page      string // content template name
	Title     string
	Settings  *conf.Settings
	Site      *conf.SiteSettings
	Theme     string // resolved theme: light, dark or auto
	CSRFToken string

	// Signed-in state for the nav and admin chrome
	Authenticated bool
	Username      string

	// One-shot toasts drained from the session
	Flashes []security.Flash

	// Page-specific payload, set by the handler
	Data any

	// Validation errors when re-rendering a form after a 422
	FieldErrors map[string]string
}

// PostPageData is the payload for the post detail template.
type PostPageData struct {
	Post    *backend.Post
	Content template.HTML
	TOC     []render.Heading
}

// ListPageData is the payload for paginated post listings.
type ListPageData struct {
	Posts      []backend.Post
	Pagination backend.Pagination
	PageLinks  []PageLink
	Heading    string
	Query      string
}

// rawHTML passes backend-delivered HTML through untransformed.
func rawHTML(s string) template.HTML {
	return template.HTML(s)
}

// TemplateRenderer is a custom HTML template renderer for Echo.
type TemplateRenderer struct {
	templates *template.Template
	logger    echo.Logger
}

// Render renders a template into a buffer first so a template error
// never emits a half-written page.
func (t *TemplateRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	var buf bytes.Buffer
	if err := t.templates.ExecuteTemplate(&buf, name, data); err != nil {
		t.logger.Errorf("Error executing template %s: %v", name, err)
		return err
	}

	_, err := buf.WriteTo(w)
	if err != nil {
		t.logger.Errorf("Error writing template result: %v", err)
	}
	return err
}

// setupTemplateRenderer configures the template renderer for the server.
func (s *Server) setupTemplateRenderer() {
	funcMap := s.GetTemplateFunctions()

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(ViewsFs, "views/*.html", "views/*/*.html")
	if err != nil {
		s.Echo.Logger.Fatal(err)
	}

	s.Echo.Renderer = &TemplateRenderer{
		templates: tmpl,
		logger:    s.Echo.Logger,
	}
}

// renderPage executes a page template with the standard envelope.
func (s *Server) renderPage(c echo.Context, status int, templateName, title string, data any) error {
	return c.Render(status, templateName, s.renderData(c, templateName, title, data))
}

// renderData builds the template envelope for a request.
func (s *Server) renderData(c echo.Context, page, title string, data any) RenderData {
	token, _ := c.Get(CSRFContextKey).(string)
	return RenderData{
		C:             c,
		Page:          page,
		Title:         title,
		Settings:      s.Settings,
		Site:          &s.Settings.Site,
		Theme:         s.resolveTheme(c),
		CSRFToken:     token,
		Authenticated: s.Auth.IsUserAuthenticated(c),
		Username:      s.Auth.Username(c),
		Flashes:       s.Auth.Sessions().Flashes(c),
		Data:          data,
	}
}
