package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestRouter builds the full API router over the embedded catalog.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	catalog, err := NewEmbeddedCatalog()
	require.NoError(t, err)
	return NewRouter(ServerConfig{Catalog: catalog}, nil)
}

// get sends a GET request to handler and returns the recorded response.
func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}
