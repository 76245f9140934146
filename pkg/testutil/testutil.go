package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// HTTPServerWithHandlers creates an httptest.Server which serves one request
// per configured handler, in order. Unexpected or missing requests fail the test.
func HTTPServerWithHandlers(t *testing.T, handlers []http.HandlerFunc) *httptest.Server {
	t.Helper()

	idx := 0
	t.Cleanup(func() {
		if diff := len(handlers) - idx; diff != 0 {
			t.Fatalf("too many configured handlers, remove %d handler(s)", diff)
		}
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(handlers) < idx+1 {
			t.Fatalf("unexpected request, add missing handler func: %v", r)
		}
		handlers[idx](w, r)
		idx += 1
	}))
	t.Cleanup(srv.Close)
	return srv
}
