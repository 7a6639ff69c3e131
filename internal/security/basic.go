package security

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
)

// checkBasicAuth validates an Authorization: Basic header against the
// configured admin password. The username is not checked; the frontend
// has a single basic-auth identity.
func (s *Service) checkBasicAuth(c echo.Context) bool {
	basicAuth := s.settings.Security.BasicAuth
	if !basicAuth.Enabled || basicAuth.Password == "" {
		return false
	}

	_, password, ok := c.Request().BasicAuth()
	if !ok {
		return false
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(basicAuth.Password)) != 1 {
		securityLogger.Warn("basic auth rejected", "client_ip", c.RealIP())
		return false
	}
	return true
}
