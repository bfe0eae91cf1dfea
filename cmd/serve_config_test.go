package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validServeConfig() ServeConfig {
	return ServeConfig{
		Transport:        transportStdio,
		HTTPAddr:         ":8080",
		SSEEndpoint:      "/sse",
		MessageEndpoint:  "/message",
		HTTPEndpoint:     "/mcp",
		QPSLimit:         20.0,
		BurstLimit:       30,
		Timeout:          30 * time.Second,
		DefaultNamespace: "default",
	}
}

func TestServeConfigLoadEnv(t *testing.T) {
	t.Run("fills kubeconfig from environment", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/tmp/env-kubeconfig")

		config := validServeConfig()
		config.LoadEnv()

		assert.Equal(t, "/tmp/env-kubeconfig", config.KubeconfigPath)
	})

	t.Run("flag takes precedence over environment", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/tmp/env-kubeconfig")

		config := validServeConfig()
		config.KubeconfigPath = "/tmp/flag-kubeconfig"
		config.LoadEnv()

		assert.Equal(t, "/tmp/flag-kubeconfig", config.KubeconfigPath)
	})

	t.Run("in-cluster mode ignores KUBECONFIG", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/tmp/env-kubeconfig")

		config := validServeConfig()
		config.InCluster = true
		config.LoadEnv()

		assert.Empty(t, config.KubeconfigPath)
		assert.NoError(t, config.Validate())
	})
}

func TestServeConfigValidate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*ServeConfig)
		expectError   bool
		errorContains string
	}{
		{
			name:   "valid stdio config",
			mutate: func(c *ServeConfig) {},
		},
		{
			name:   "valid sse config",
			mutate: func(c *ServeConfig) { c.Transport = transportSSE },
		},
		{
			name:   "valid streamable-http config",
			mutate: func(c *ServeConfig) { c.Transport = transportStreamableHTTP },
		},
		{
			name:          "unsupported transport",
			mutate:        func(c *ServeConfig) { c.Transport = "websocket" },
			expectError:   true,
			errorContains: "unsupported transport type: websocket",
		},
		{
			name:          "empty transport",
			mutate:        func(c *ServeConfig) { c.Transport = "" },
			expectError:   true,
			errorContains: "unsupported transport type",
		},
		{
			name: "kubeconfig and in-cluster are mutually exclusive",
			mutate: func(c *ServeConfig) {
				c.KubeconfigPath = "/home/user/.kube/config"
				c.InCluster = true
			},
			expectError:   true,
			errorContains: "mutually exclusive",
		},
		{
			name:   "in-cluster without kubeconfig is fine",
			mutate: func(c *ServeConfig) { c.InCluster = true },
		},
		{
			name:          "negative qps limit",
			mutate:        func(c *ServeConfig) { c.QPSLimit = -1 },
			expectError:   true,
			errorContains: "--qps-limit must not be negative",
		},
		{
			name:          "negative burst limit",
			mutate:        func(c *ServeConfig) { c.BurstLimit = -5 },
			expectError:   true,
			errorContains: "--burst-limit must not be negative",
		},
		{
			name:          "negative timeout",
			mutate:        func(c *ServeConfig) { c.Timeout = -time.Second },
			expectError:   true,
			errorContains: "--timeout must not be negative",
		},
		{
			name:   "zero limits are allowed",
			mutate: func(c *ServeConfig) { c.QPSLimit = 0; c.BurstLimit = 0; c.Timeout = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validServeConfig()
			tt.mutate(&config)

			err := config.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
