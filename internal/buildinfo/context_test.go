package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_GetVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  *Context
		want string
	}{
		{name: "nil context", ctx: nil, want: UnknownValue},
		{name: "empty version", ctx: NewContext("", "2026-01-01"), want: UnknownValue},
		{name: "release tag", ctx: NewContext("v1.4.0", "2026-01-01"), want: "v1.4.0"},
		{name: "pre-release tag", ctx: NewContext("v1.5.0-beta.1", "2026-01-01"), want: "v1.5.0-beta.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.ctx.GetVersion())
		})
	}
}

func TestContext_GetBuildDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  *Context
		want string
	}{
		{name: "nil context", ctx: nil, want: UnknownValue},
		{name: "empty date", ctx: NewContext("v1.0.0", ""), want: UnknownValue},
		{name: "set date", ctx: NewContext("v1.0.0", "2026-03-01T10:00:00Z"), want: "2026-03-01T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.ctx.GetBuildDate())
		})
	}
}
