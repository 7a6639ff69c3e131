package backend

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies no goroutines leak from client lifecycle across the
// package tests. The pooled transport keeps idle connections with
// background readers, so those are expected.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}
