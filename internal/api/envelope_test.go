package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeTransformer_Success(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "book_123"})
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	require.Contains(t, out, "data")
	assert.NotContains(t, out, "error")
}

func TestEnvelopeTransformer_SuccessNilData(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "204", nil)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, true, out["success"])
	require.Contains(t, out, "data")
	assert.Nil(t, out["data"])
}

func TestEnvelopeTransformer_Error(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "404", &APIError{Code: "NOT_FOUND", Message: "book not found"})
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, false, out["success"])
	require.Contains(t, out, "error")
	assert.NotContains(t, out, "data")

	errObj, ok := out["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
	assert.Equal(t, "book not found", errObj["message"])
}

func TestStatusToCode(t *testing.T) {
	assert.Equal(t, "VALIDATION", statusToCode(400))
	assert.Equal(t, "UNAUTHORIZED", statusToCode(401))
	assert.Equal(t, "FORBIDDEN", statusToCode(403))
	assert.Equal(t, "NOT_FOUND", statusToCode(404))
	assert.Equal(t, "CONFLICT", statusToCode(409))
	assert.Equal(t, "RATE_LIMITED", statusToCode(429))
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", statusToCode(502))
	assert.Equal(t, "INTERNAL", statusToCode(500))
}
