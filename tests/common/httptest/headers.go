//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertHeaders compares response headers. An empty expected value asserts the header is absent.
func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		if v == "" {
			assert.NotContains(t, w.Header(), k, "header %s should be absent", k)
			continue
		}
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}
