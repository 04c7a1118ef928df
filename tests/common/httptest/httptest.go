//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// RawBody is sent as-is, for requests that must not be valid JSON.
type RawBody string

// PerformRequest runs one request through router. body is JSON encoded unless it
// is a RawBody; authToken is sent as a bearer token when non-empty.
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, authToken string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case RawBody:
		reader = bytes.NewBufferString(string(b))
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err, "failed to encode request body")
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
