// Package buildinfo carries build-time metadata injected by the linker,
// kept separate from user configuration.
package buildinfo

// UnknownValue is returned when a metadata field was not set at build time.
const UnknownValue = "unknown"

// Context holds build metadata for the running binary.
type Context struct {
	// Version is the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string
}

// NewContext creates a build context from linker-injected values.
func NewContext(version, buildDate string) *Context {
	return &Context{
		Version:   version,
		BuildDate: buildDate,
	}
}

// GetVersion returns the build version, or UnknownValue when unset.
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return UnknownValue
	}
	return c.Version
}

// GetBuildDate returns the build date, or UnknownValue when unset.
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return UnknownValue
	}
	return c.BuildDate
}
