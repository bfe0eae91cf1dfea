package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mesosphere/mcp-gitops/internal/instrumentation"
	"github.com/mesosphere/mcp-gitops/internal/k8s"
	"github.com/mesosphere/mcp-gitops/internal/logging"
	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/tools/apps"
	"github.com/mesosphere/mcp-gitops/internal/tools/capi"
	contexttools "github.com/mesosphere/mcp-gitops/internal/tools/context"
	"github.com/mesosphere/mcp-gitops/internal/tools/debug"
	"github.com/mesosphere/mcp-gitops/internal/tools/gitops"
	"github.com/mesosphere/mcp-gitops/internal/tools/policy"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var config ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP GitOps server",
		Long: `Start the MCP GitOps server to provide read-only introspection tools
for GitOps-managed Kubernetes clusters via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Authentication modes:
  - Kubeconfig (default): Uses standard kubeconfig file authentication
  - In-cluster: Uses the service account token when running inside a Kubernetes pod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(config)
		},
	}

	// Kubernetes client flags
	cmd.Flags().StringVar(&config.KubeconfigPath, "kubeconfig", "", "Path to the kubeconfig file (defaults to KUBECONFIG or ~/.kube/config)")
	cmd.Flags().BoolVar(&config.InCluster, "in-cluster", false, "Use in-cluster authentication (service account token) instead of kubeconfig (default: false)")
	cmd.Flags().Float32Var(&config.QPSLimit, "qps-limit", 20.0, "QPS limit for Kubernetes API calls (default: 20.0)")
	cmd.Flags().IntVar(&config.BurstLimit, "burst-limit", 30, "Burst limit for Kubernetes API calls (default: 30)")
	cmd.Flags().DurationVar(&config.Timeout, "timeout", 30*time.Second, "Timeout for Kubernetes API calls (default: 30s)")
	cmd.Flags().StringVar(&config.DefaultNamespace, "namespace", "default", "Default namespace for namespaced queries (default: default)")
	cmd.Flags().BoolVar(&config.DebugMode, "debug", false, "Enable debug logging (default: false)")

	// Transport flags
	cmd.Flags().StringVar(&config.Transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&config.SSEEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.MessageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Metrics flags
	cmd.Flags().BoolVar(&config.Metrics.Enabled, "metrics", true, "Serve Prometheus metrics on a dedicated listener (default: true)")
	cmd.Flags().StringVar(&config.Metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

// runServe contains the main server logic with support for multiple transports.
func runServe(config ServeConfig) error {
	config.LoadEnv()
	if err := config.Validate(); err != nil {
		return err
	}

	logger := logging.DefaultLogger()

	k8sClient, err := k8s.NewClient(&k8s.ClientConfig{
		KubeconfigPath: config.KubeconfigPath,
		InCluster:      config.InCluster,
		QPSLimit:       config.QPSLimit,
		BurstLimit:     config.BurstLimit,
		Timeout:        config.Timeout,
		DebugMode:      config.DebugMode,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	// Graceful shutdown on both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			// stdio owns stdout/stderr for MCP traffic, keep quiet there
			if config.Transport != transportStdio {
				log.Printf("Error during instrumentation shutdown: %v", shutdownErr)
			}
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics", instrumentationConfig.MetricsExporter,
			"tracing", instrumentationConfig.TracingExporter)
	}

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithK8sClient(k8sClient),
		server.WithLogger(logger),
		server.WithVersion(rootCmd.Version),
		server.WithDefaultNamespace(config.DefaultNamespace),
		server.WithInCluster(config.InCluster),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			if config.Transport != transportStdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("mcp-gitops", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := registerTools(mcpSrv, serverContext); err != nil {
		return err
	}

	switch config.Transport {
	case transportStdio:
		// No startup banner for stdio, it would corrupt the MCP stream
		return runStdioServer(mcpSrv)
	case transportSSE:
		fmt.Printf("Starting MCP GitOps server with %s transport...\n", config.Transport)
		return runSSEServer(shutdownCtx, mcpSrv, config)
	case transportStreamableHTTP:
		fmt.Printf("Starting MCP GitOps server with %s transport...\n", config.Transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, config, instrumentationProvider, serverContext)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}

// registerTools registers every tool family with the MCP server.
func registerTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	registrations := []struct {
		name     string
		register func(*mcpserver.MCPServer, *server.ServerContext) error
	}{
		{"gitops", gitops.RegisterGitOpsTools},
		{"capi", capi.RegisterCAPITools},
		{"apps", apps.RegisterAppsTools},
		{"policy", policy.RegisterPolicyTools},
		{"debug", debug.RegisterDebugTools},
		{"context", contexttools.RegisterContextTools},
	}

	for _, r := range registrations {
		if err := r.register(mcpSrv, sc); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", r.name, err)
		}
	}
	return nil
}
