//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits a request body after it has been turned into a JSON object.
type Mutation func(m map[string]any)

// DtoMap round-trips v through JSON so tests can break individual fields.
func DtoMap(t *testing.T, v any, muts ...func(map[string]any)) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, f := range muts {
		f(m)
	}
	return m
}

// Field sets key to value, or removes it when value is nil.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}

// Null keeps key but sends an explicit JSON null.
func Null(key string) func(m map[string]any) {
	return func(m map[string]any) {
		m[key] = nil
	}
}
