package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesosphere/mcp-gitops/internal/k8s/fake"
	"github.com/mesosphere/mcp-gitops/internal/server"
)

func newTestContext(t *testing.T, inCluster bool) *server.ServerContext {
	t.Helper()

	sc, err := server.NewServerContext(context.Background(),
		server.WithK8sClient(&fake.Client{}),
		server.WithInCluster(inCluster),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sc.Shutdown()
	})
	return sc
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func TestAddKubeContextParam(t *testing.T) {
	t.Run("kubeconfig mode exposes the parameter", func(t *testing.T) {
		sc := newTestContext(t, false)
		assert.Len(t, AddKubeContextParam(sc), 1)
	})

	t.Run("in-cluster mode hides the parameter", func(t *testing.T) {
		sc := newTestContext(t, true)
		assert.Empty(t, AddKubeContextParam(sc))
	})
}

func TestKubeContext(t *testing.T) {
	request := newRequest(map[string]interface{}{"kubeContext": "prod"})

	sc := newTestContext(t, false)
	assert.Equal(t, "prod", KubeContext(request, sc))

	// In-cluster mode ignores the argument entirely
	inCluster := newTestContext(t, true)
	assert.Equal(t, "", KubeContext(request, inCluster))
}

func TestStringArg(t *testing.T) {
	request := newRequest(map[string]interface{}{
		"namespace": "flux-system",
		"empty":     "",
	})

	assert.Equal(t, "flux-system", StringArg(request, "namespace", "default"))
	assert.Equal(t, "default", StringArg(request, "empty", "default"))
	assert.Equal(t, "default", StringArg(request, "missing", "default"))
}

func TestRequiredStringArg(t *testing.T) {
	request := newRequest(map[string]interface{}{"name": "podinfo"})

	value, err := RequiredStringArg(request, "name")
	require.NoError(t, err)
	assert.Equal(t, "podinfo", value)

	_, err = RequiredStringArg(request, "missing")
	require.Error(t, err)
	assert.EqualError(t, err, "missing parameter is required")
}

func TestBoolArg(t *testing.T) {
	request := newRequest(map[string]interface{}{
		"cluster_scoped": true,
		"not_a_bool":     "yes",
	})

	assert.True(t, BoolArg(request, "cluster_scoped", false))
	assert.False(t, BoolArg(request, "missing", false))
	assert.True(t, BoolArg(request, "missing", true))

	// Wrong type falls back to the default
	assert.False(t, BoolArg(request, "not_a_bool", false))
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name          string
		args          map[string]interface{}
		def           int
		expected      int
		expectError   bool
		errorContains string
	}{
		{
			name:     "missing argument returns default",
			args:     map[string]interface{}{},
			def:      20,
			expected: 20,
		},
		{
			name:     "json number arrives as float64",
			args:     map[string]interface{}{"limit": float64(5)},
			expected: 5,
		},
		{
			name:     "quoted number is parsed",
			args:     map[string]interface{}{"limit": "42"},
			expected: 42,
		},
		{
			name:     "empty string returns default",
			args:     map[string]interface{}{"limit": ""},
			def:      100,
			expected: 100,
		},
		{
			name:          "non-numeric string is an error",
			args:          map[string]interface{}{"limit": "lots"},
			expectError:   true,
			errorContains: `limit must be a number, got "lots"`,
		},
		{
			name:          "non-numeric type is an error",
			args:          map[string]interface{}{"limit": []string{"5"}},
			expectError:   true,
			errorContains: "limit must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := IntArg(newRequest(tt.args), "limit", tt.def)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}
