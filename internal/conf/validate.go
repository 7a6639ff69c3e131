// validate.go: validation of user provided settings
package conf

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/ewahlberg/pressgang/internal/errors"
)

// validThemes lists the accepted site theme values.
var validThemes = map[string]bool{
	"light": true,
	"dark":  true,
	"auto":  true,
}

// ValidateSettings validates the settings struct and returns an error with
// all validation failures joined.
func ValidateSettings(settings *Settings) error {
	var errs []error

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		errs = append(errs, err)
	}
	if err := validateBackendSettings(&settings.Backend); err != nil {
		errs = append(errs, err)
	}
	if err := validateSiteSettings(&settings.Site); err != nil {
		errs = append(errs, err)
	}
	if err := validateSecuritySettings(&settings.Security); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.New(errors.Join(errs...)).
			Category(errors.CategoryConfiguration).
			Context("validation_errors", len(errs)).
			Build()
	}
	return nil
}

func validateWebServerSettings(ws *WebServerSettings) error {
	if !ws.Enabled {
		return nil
	}
	port, err := strconv.Atoi(ws.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid webserver port: %q", ws.Port)
	}
	return nil
}

func validateBackendSettings(b *BackendSettings) error {
	if b.BaseURL == "" {
		return fmt.Errorf("backend.baseurl must not be empty")
	}
	u, err := url.Parse(b.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.baseurl is not a valid URL: %q", b.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.baseurl must use http or https, got %q", u.Scheme)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %d", b.Timeout)
	}
	if b.CacheTTL < 0 {
		return fmt.Errorf("backend.cachettl must not be negative, got %d", b.CacheTTL)
	}
	return nil
}

func validateSiteSettings(s *SiteSettings) error {
	if s.Title == "" {
		return fmt.Errorf("site.title must not be empty")
	}
	if !validThemes[strings.ToLower(s.Theme)] {
		return fmt.Errorf("site.theme must be light, dark or auto, got %q", s.Theme)
	}
	if s.PostsPerPage < 1 || s.PostsPerPage > 100 {
		return fmt.Errorf("site.postsperpage must be between 1 and 100, got %d", s.PostsPerPage)
	}
	return nil
}

func validateSecuritySettings(sec *Security) error {
	var errs []error

	if sec.AutoTLS && sec.Host == "" {
		errs = append(errs, fmt.Errorf("security.host must be set when autotls is enabled"))
	}

	authEnabled := sec.BasicAuth.Enabled || sec.GoogleAuth.Enabled || sec.GithubAuth.Enabled
	if authEnabled && sec.SessionSecret == "" {
		errs = append(errs, fmt.Errorf("security.sessionsecret must be set when authentication is enabled"))
	}

	if sec.GoogleAuth.Enabled && (sec.GoogleAuth.ClientID == "" || sec.GoogleAuth.ClientSecret == "") {
		errs = append(errs, fmt.Errorf("security.googleauth requires clientid and clientsecret"))
	}
	if sec.GithubAuth.Enabled && (sec.GithubAuth.ClientID == "" || sec.GithubAuth.ClientSecret == "") {
		errs = append(errs, fmt.Errorf("security.githubauth requires clientid and clientsecret"))
	}

	if sec.AllowSubnetBypass.Enabled {
		if _, _, err := net.ParseCIDR(sec.AllowSubnetBypass.Subnet); err != nil {
			errs = append(errs, fmt.Errorf("security.allowsubnetbypass.subnet is not valid CIDR: %q", sec.AllowSubnetBypass.Subnet))
		}
	}

	return errors.Join(errs...)
}
