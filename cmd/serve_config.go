package cmd

import (
	"fmt"
	"os"
	"time"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Kubernetes client settings
	KubeconfigPath   string
	InCluster        bool
	QPSLimit         float32
	BurstLimit       int
	Timeout          time.Duration
	DefaultNamespace string
	DebugMode        bool

	// Metrics server configuration
	Metrics MetricsServeConfig
}

// MetricsServeConfig holds the dedicated metrics server configuration.
// Metrics are served on a separate listener so cluster-internal scraping
// never shares a port with MCP traffic.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// loadEnvIfEmpty loads a value from an environment variable if the target
// string is empty. Flags take precedence over environment variables.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// LoadEnv fills unset settings from the environment. In-cluster mode never
// reads KUBECONFIG so the mutual-exclusion check stays meaningful.
func (c *ServeConfig) LoadEnv() {
	if !c.InCluster {
		loadEnvIfEmpty(&c.KubeconfigPath, "KUBECONFIG")
	}
}

// Validate checks the serve configuration for inconsistencies before any
// client or listener is created.
func (c ServeConfig) Validate() error {
	switch c.Transport {
	case transportStdio, transportSSE, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			c.Transport, transportStdio, transportSSE, transportStreamableHTTP)
	}

	if c.InCluster && c.KubeconfigPath != "" {
		return fmt.Errorf("--kubeconfig and --in-cluster are mutually exclusive")
	}
	if c.QPSLimit < 0 {
		return fmt.Errorf("--qps-limit must not be negative, got %v", c.QPSLimit)
	}
	if c.BurstLimit < 0 {
		return fmt.Errorf("--burst-limit must not be negative, got %d", c.BurstLimit)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative, got %v", c.Timeout)
	}

	return nil
}
