//go:build e2e

package test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPJSONStep represents a single HTTP JSON request step in a test
type HTTPJSONStep struct {
	Name           string
	Method         string
	URL            string
	Body           any
	Headers        map[string]string
	ExpectedStatus int
	Validator      func(*testing.T, map[string]any) // Optional response validator
}

// ExecuteHTTPJSONStep executes a single HTTP JSON step and handles all the common boilerplate
func ExecuteHTTPJSONStep(t *testing.T, step HTTPJSONStep, baseURL string) map[string]any {
	t.Helper()
	t.Logf("step: %s", step.Name)

	url := baseURL + step.URL
	resp, err := httpJSON(step.Method, url, step.Body, step.Headers)
	require.NoError(t, err)
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf(msgFailedToCloseResponseBody, err)
		}
	}()

	assert.Equal(t, step.ExpectedStatus, resp.StatusCode)

	var respData map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&respData))

	if step.Validator != nil {
		step.Validator(t, respData)
	}

	return respData
}

// ExecuteHTTPJSONSteps executes a sequence of HTTP JSON steps
func ExecuteHTTPJSONSteps(t *testing.T, steps []HTTPJSONStep, baseURL string) []map[string]any {
	t.Helper()
	var results []map[string]any

	for _, step := range steps {
		result := ExecuteHTTPJSONStep(t, step, baseURL)
		results = append(results, result)
	}

	return results
}

// MessageValidator validates that a response carries a specific envelope message
func MessageValidator(expectedMessage string) func(*testing.T, map[string]any) {
	return func(t *testing.T, respData map[string]any) {
		t.Helper()
		message, exists := respData["message"]
		require.True(t, exists, "Expected message field to exist in response")
		assert.Equal(t, expectedMessage, message)
	}
}

// MessageContainsValidator validates that the envelope message contains a substring
func MessageContainsValidator(expectedSubstring string) func(*testing.T, map[string]any) {
	return func(t *testing.T, respData map[string]any) {
		t.Helper()
		message, exists := respData["message"]
		require.True(t, exists, "Expected message field to exist in response")
		assert.Contains(t, message.(string), expectedSubstring)
	}
}

// Data extracts the envelope payload as an object
func Data(t *testing.T, respData map[string]any) map[string]any {
	t.Helper()
	data, exists := respData["data"]
	require.True(t, exists, "Expected data field to exist in response")
	obj, ok := data.(map[string]any)
	require.True(t, ok, "Expected data to be an object, got %T", data)
	return obj
}

// DataList extracts the envelope payload as a list of objects
func DataList(t *testing.T, respData map[string]any) []map[string]any {
	t.Helper()
	data, exists := respData["data"]
	require.True(t, exists, "Expected data field to exist in response")
	raw, ok := data.([]any)
	require.True(t, ok, "Expected data to be a list, got %T", data)

	out := make([]map[string]any, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		require.True(t, ok, "Expected list item %d to be an object, got %T", i, item)
		out[i] = obj
	}
	return out
}

// GetTokenFromResponse extracts the access token from an auth response envelope
func GetTokenFromResponse(t *testing.T, respData map[string]any) string {
	t.Helper()
	data := Data(t, respData)
	token, exists := data["token"]
	require.True(t, exists, "Expected token field to exist in auth payload")
	tokenStr, ok := token.(string)
	require.True(t, ok, "Expected token to be a string")
	require.NotEmpty(t, tokenStr, "Expected token to not be empty")
	return tokenStr
}

// GetIDFromResponse extracts the resource id from a data-bearing envelope
func GetIDFromResponse(t *testing.T, respData map[string]any) string {
	t.Helper()
	data := Data(t, respData)
	id, exists := data["id"]
	require.True(t, exists, "Expected id field to exist in payload")
	idStr, ok := id.(string)
	require.True(t, ok, "Expected id to be a string")
	require.NotEmpty(t, idStr)
	return idStr
}
