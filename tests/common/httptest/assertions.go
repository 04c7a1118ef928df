//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
	} `json:"error"`
}

// AssertSuccessResponse checks the status and, for 2xx, decodes the body into target when given.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String()) {
		return
	}
	if target != nil && expectedStatus >= 200 && expectedStatus < 300 {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "undecodable body: %s", w.Body.String())
	}
}

// AssertErrorResponse checks the status and that the error message contains expectedMsg (skipped when empty).
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string) {
	t.Helper()
	body := assertError(t, w, expectedStatus)
	if expectedMsg != "" {
		assert.Contains(t, body.Error.Message, expectedMsg)
	}
}

// AssertErrorKind checks the status and the error kind tag of the body.
func AssertErrorKind(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedKind string) {
	t.Helper()
	body := assertError(t, w, expectedStatus)
	assert.Equal(t, expectedKind, body.Error.Kind)
}

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s", k)
	}
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) errorBody {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var body errorBody
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "undecodable error body: %s", w.Body.String())
	return body
}
