package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewahlberg/pressgang/internal/conf"
)

// Viper state is package-global, so these tests pin the config file
// explicitly and reset it afterwards instead of running in parallel.

func validSettings() *conf.Settings {
	settings := &conf.Settings{}
	settings.Backend.BaseURL = "http://localhost:8090"
	settings.Backend.Timeout = 15
	settings.Site.Title = "Field Notes"
	settings.Site.Theme = "auto"
	settings.Site.PostsPerPage = 10
	return settings
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	viper.SetConfigFile(path)
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	cmd := Command(validSettings())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Configuration is valid")
}

func TestValidateCommand_InvalidSettings(t *testing.T) {
	settings := validSettings()
	settings.Site.Title = ""

	cmd := Command(settings)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site.title")
}

func TestSaveCommandWritesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	viper.SetConfigFile(path)
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	cmd := Command(validSettings())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"save"})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Field Notes")
	assert.Contains(t, out.String(), path)
}
