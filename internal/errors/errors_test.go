package errors

import (
	"fmt"
	"testing"
	"time"
)

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("test error")
	ee := New(err).Build()

	if ee.Err.Error() != "test error" {
		t.Errorf("Expected error message 'test error', got '%s'", ee.Err.Error())
	}

	if ee.Category != CategoryGeneric {
		t.Errorf("Expected category 'generic', got '%s'", ee.Category)
	}

	if ee.GetTimestamp().IsZero() {
		t.Error("Expected timestamp to be set")
	}
}

func TestBuilderChaining(t *testing.T) {
	t.Parallel()

	ee := Newf("backend returned %d", 502).
		Category(CategoryBackendAPI).
		Component("backend").
		Context("resource", "posts").
		Timing("list-posts", 250*time.Millisecond).
		Build()

	if ee.Category != CategoryBackendAPI {
		t.Errorf("Expected category 'backend-api', got '%s'", ee.Category)
	}

	if ee.GetComponent() != "backend" {
		t.Errorf("Expected component 'backend', got '%s'", ee.GetComponent())
	}

	ctx := ee.GetContext()
	if ctx["resource"] != "posts" {
		t.Errorf("Expected context resource 'posts', got '%v'", ctx["resource"])
	}
	if ctx["operation"] != "list-posts" {
		t.Errorf("Expected context operation 'list-posts', got '%v'", ctx["operation"])
	}
}

func TestCategoryDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		message  string
		expected ErrorCategory
	}{
		{"not found", "post not found", CategoryNotFound},
		{"timeout", "context deadline exceeded", CategoryTimeout},
		{"network", "dial tcp: connection refused", CategoryNetwork},
		{"validation", "invalid slug format", CategoryValidation},
		{"session", "session expired", CategorySession},
		{"generic", "something odd happened", CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ee := Newf("%s", tt.message).Build()
			if ee.Category != tt.expected {
				t.Errorf("detectCategory(%q) = %s, want %s", tt.message, ee.Category, tt.expected)
			}
		})
	}
}

func TestIsMatchesCategory(t *testing.T) {
	t.Parallel()

	a := Newf("first").Category(CategoryGitSync).Build()
	b := Newf("second").Category(CategoryGitSync).Build()

	if !Is(a, b) {
		t.Error("Expected errors with the same category to match via Is")
	}

	c := Newf("third").Category(CategoryRender).Build()
	if Is(a, c) {
		t.Error("Expected errors with different categories not to match")
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	err := NotFoundError("post", "missing-slug")
	if !IsNotFound(err) {
		t.Error("Expected IsNotFound to be true for NotFoundError")
	}

	wrapped := fmt.Errorf("fetching page: %w", err)
	if !IsNotFound(wrapped) {
		t.Error("Expected IsNotFound to unwrap to the enhanced error")
	}

	if IsNotFound(NewStd("plain")) {
		t.Error("Expected IsNotFound to be false for plain errors")
	}
}

func TestURLContextAnonymizes(t *testing.T) {
	t.Parallel()

	ee := Newf("request failed").
		URLContext("https://cms.internal/api/v1/posts?token=abc", 5*time.Second).
		Build()

	ctx := ee.GetContext()
	if ctx["url_category"] != "https-endpoint" {
		t.Errorf("Expected url_category 'https-endpoint', got '%v'", ctx["url_category"])
	}
	if _, ok := ctx["timeout_seconds"]; !ok {
		t.Error("Expected timeout_seconds in context")
	}
}
