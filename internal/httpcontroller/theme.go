package httpcontroller

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const themeCookieName = "theme"

// validThemes are the accepted values for the theme cookie; auto defers
// to the browser's prefers-color-scheme.
var validThemes = map[string]bool{
	"light": true,
	"dark":  true,
	"auto":  true,
}

// resolveTheme returns the effective theme for a request: cookie first,
// then the configured site default, then auto.
func (s *Server) resolveTheme(c echo.Context) string {
	if cookie, err := c.Cookie(themeCookieName); err == nil && validThemes[cookie.Value] {
		return cookie.Value
	}
	if validThemes[s.Settings.Site.Theme] {
		return s.Settings.Site.Theme
	}
	return "auto"
}

// handleThemeSwitch sets the theme cookie and redirects back to the
// page the switch was made from.
func (s *Server) handleThemeSwitch(c echo.Context) error {
	theme := c.FormValue("theme")
	if !validThemes[theme] {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown theme")
	}

	c.SetCookie(&http.Cookie{
		Name:     themeCookieName,
		Value:    theme,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: false, // client script reads it to apply auto mode
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Settings.Security.RedirectToHTTPS,
	})

	return c.Redirect(http.StatusFound, safeReturnPath(c.FormValue("return")))
}

// safeReturnPath only allows same-site relative paths for the
// post-switch redirect.
func safeReturnPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}
