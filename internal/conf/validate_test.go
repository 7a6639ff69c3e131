package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validTestSettings returns a settings struct that passes validation.
func validTestSettings() *Settings {
	s := &Settings{}
	s.Main.Name = "Pressgang"
	s.WebServer.Enabled = true
	s.WebServer.Port = "8080"
	s.Backend.BaseURL = "http://localhost:9000"
	s.Backend.Timeout = 15
	s.Backend.CacheTTL = 60
	s.Site.Title = "Pressgang"
	s.Site.Theme = "auto"
	s.Site.PostsPerPage = 10
	s.Site.Locale = "en"
	return s
}

func TestValidateSettingsValid(t *testing.T) {
	t.Parallel()

	s := validTestSettings()
	require.NoError(t, ValidateSettings(s))
}

func TestValidateWebServerPort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"valid port", "8080", false},
		{"empty port", "", true},
		{"non numeric", "http", true},
		{"out of range", "70000", true},
		{"zero", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validTestSettings()
			s.WebServer.Port = tt.port
			err := ValidateSettings(s)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBackendSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid https", func(s *Settings) { s.Backend.BaseURL = "https://cms.example.com" }, false},
		{"empty baseurl", func(s *Settings) { s.Backend.BaseURL = "" }, true},
		{"no scheme", func(s *Settings) { s.Backend.BaseURL = "cms.example.com" }, true},
		{"bad scheme", func(s *Settings) { s.Backend.BaseURL = "ftp://cms.example.com" }, true},
		{"zero timeout", func(s *Settings) { s.Backend.Timeout = 0 }, true},
		{"negative cache ttl", func(s *Settings) { s.Backend.CacheTTL = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validTestSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSiteSettings(t *testing.T) {
	t.Parallel()

	s := validTestSettings()
	s.Site.Theme = "sepia"
	assert.Error(t, ValidateSettings(s), "unknown theme must be rejected")

	s = validTestSettings()
	s.Site.PostsPerPage = 0
	assert.Error(t, ValidateSettings(s), "postsperpage below 1 must be rejected")

	s = validTestSettings()
	s.Site.Title = ""
	assert.Error(t, ValidateSettings(s), "empty site title must be rejected")
}

func TestValidateSecuritySettings(t *testing.T) {
	t.Parallel()

	s := validTestSettings()
	s.Security.AutoTLS = true
	assert.Error(t, ValidateSettings(s), "autotls without host must be rejected")

	s = validTestSettings()
	s.Security.BasicAuth.Enabled = true
	s.Security.BasicAuth.Password = "secret"
	assert.Error(t, ValidateSettings(s), "auth without sessionsecret must be rejected")

	s.Security.SessionSecret = GenerateRandomSecret()
	assert.NoError(t, ValidateSettings(s))

	s = validTestSettings()
	s.Security.AllowSubnetBypass.Enabled = true
	s.Security.AllowSubnetBypass.Subnet = "not-a-subnet"
	assert.Error(t, ValidateSettings(s), "invalid CIDR must be rejected")

	s.Security.AllowSubnetBypass.Subnet = "192.168.1.0/24"
	assert.NoError(t, ValidateSettings(s))
}

func TestGenerateRandomSecret(t *testing.T) {
	t.Parallel()

	a := GenerateRandomSecret()
	b := GenerateRandomSecret()
	require.NotEmpty(t, a)
	require.NotEmpty(t, b)
	assert.NotEqual(t, a, b, "secrets must be random")
	assert.GreaterOrEqual(t, len(a), 40, "32 random bytes base64-encoded")
}
