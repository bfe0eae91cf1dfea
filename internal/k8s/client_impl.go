package k8s

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/mesosphere/mcp-gitops/internal/logging"
)

// clusterClient implements the Client interface using client-go.
type clusterClient struct {
	// Configuration
	config *ClientConfig

	// Client cache for multi-cluster support
	mu               sync.RWMutex
	clientsets       map[string]kubernetes.Interface         // Context name -> clientset
	dynamicClients   map[string]dynamic.Interface            // Context name -> dynamic client
	discoveryClients map[string]discovery.DiscoveryInterface // Context name -> discovery client
	restConfigs      map[string]*rest.Config                 // Context name -> rest config

	// Kubeconfig management
	kubeconfigData *clientcmdapi.Config
	currentContext string

	// Performance settings
	qpsLimit   float32
	burstLimit int
	timeout    time.Duration
}

// ClientConfig holds configuration for the Kubernetes client.
type ClientConfig struct {
	// Kubeconfig settings
	KubeconfigPath string
	Context        string

	// Authentication mode
	InCluster bool // Use in-cluster service account authentication instead of kubeconfig

	// Performance settings
	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration

	// Debug settings
	DebugMode bool

	// Logging
	Logger logging.Logger
}

// NewClient creates a new Kubernetes client with the given configuration.
func NewClient(config *ClientConfig) (*clusterClient, error) {
	if config == nil {
		return nil, fmt.Errorf("client configuration is required")
	}

	// Set defaults
	if config.QPSLimit == 0 {
		config.QPSLimit = DefaultQPSLimit
	}
	if config.BurstLimit == 0 {
		config.BurstLimit = DefaultBurstLimit
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout * time.Second
	}

	client := &clusterClient{
		config:           config,
		clientsets:       make(map[string]kubernetes.Interface),
		dynamicClients:   make(map[string]dynamic.Interface),
		discoveryClients: make(map[string]discovery.DiscoveryInterface),
		restConfigs:      make(map[string]*rest.Config),
		qpsLimit:         config.QPSLimit,
		burstLimit:       config.BurstLimit,
		timeout:          config.Timeout,
	}

	if config.InCluster {
		// In-cluster mode: use service account authentication
		client.currentContext = InClusterContext

		if err := client.validateInClusterEnvironment(); err != nil {
			return nil, fmt.Errorf("in-cluster authentication not available: %w", err)
		}

		if config.Logger != nil {
			config.Logger.Info("Using in-cluster authentication")
		}
	} else {
		// Kubeconfig mode: load kubeconfig
		if err := client.loadKubeconfig(); err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
		}

		if config.Context != "" {
			client.currentContext = config.Context
		} else {
			client.currentContext = client.kubeconfigData.CurrentContext
		}

		// Validate current context exists
		if _, exists := client.kubeconfigData.Contexts[client.currentContext]; !exists && client.currentContext != "" {
			return nil, fmt.Errorf("context %q does not exist in kubeconfig", client.currentContext)
		}

		if config.Logger != nil {
			config.Logger.Info("Using kubeconfig authentication", logging.KeyContext, client.currentContext)
		}
	}

	return client, nil
}

// validateInClusterEnvironment checks if the required in-cluster authentication files are present.
func (c *clusterClient) validateInClusterEnvironment() error {
	if _, err := os.Stat(DefaultTokenPath); os.IsNotExist(err) {
		return fmt.Errorf("service account token not found at %s", DefaultTokenPath)
	}
	if _, err := os.Stat(DefaultCACertPath); os.IsNotExist(err) {
		return fmt.Errorf("service account CA certificate not found at %s", DefaultCACertPath)
	}
	if _, err := os.Stat(DefaultNamespacePath); os.IsNotExist(err) {
		return fmt.Errorf("service account namespace not found at %s", DefaultNamespacePath)
	}
	return nil
}

// loadKubeconfig loads the kubeconfig from the specified path or default locations.
func (c *clusterClient) loadKubeconfig() error {
	{
		kconf := os.Getenv("KUBECONFIG")
		if strings.HasPrefix(kconf, "~/") {
			uhd, _ := os.UserHomeDir()
			kconf = filepath.Join(uhd, kconf[2:])
		}

		if kconf != "" && c.config.KubeconfigPath == "" {
			c.config.KubeconfigPath = kconf
		}
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if c.config.KubeconfigPath != "" {
		loadingRules.ExplicitPath = c.config.KubeconfigPath
	}

	config := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{},
	)

	rawConfig, err := config.RawConfig()
	if err != nil {
		return fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	c.kubeconfigData = &rawConfig

	return nil
}

// getRestConfigLocked returns a rest.Config for the specified context.
// Caller must hold the write lock.
func (c *clusterClient) getRestConfigLocked(contextName string) (*rest.Config, error) {
	if contextName == "" {
		contextName = c.currentContext
	}

	if restConfig, exists := c.restConfigs[contextName]; exists {
		return restConfig, nil
	}

	var restConfig *rest.Config
	var err error

	if c.config.InCluster {
		restConfig, err = rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create in-cluster rest config: %w", err)
		}
	} else {
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		if c.config.KubeconfigPath != "" {
			loadingRules.ExplicitPath = c.config.KubeconfigPath
		}

		contextConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			loadingRules,
			&clientcmd.ConfigOverrides{
				CurrentContext: contextName,
			},
		)

		restConfig, err = contextConfig.ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create rest config for context %q: %w", contextName, err)
		}
	}

	// Apply performance settings
	restConfig.QPS = c.qpsLimit
	restConfig.Burst = c.burstLimit
	restConfig.Timeout = c.timeout

	if c.config.DebugMode && c.config.Logger != nil {
		c.config.Logger.Debug("created rest config",
			logging.KeyContext, contextName,
			logging.KeyHost, logging.SanitizeHost(restConfig.Host))
	}

	c.restConfigs[contextName] = restConfig

	return restConfig, nil
}

// getClientset returns a Kubernetes clientset for the specified context.
func (c *clusterClient) getClientset(contextName string) (kubernetes.Interface, error) {
	if contextName == "" {
		contextName = c.currentContext
	}

	c.mu.RLock()
	if clientset, exists := c.clientsets[contextName]; exists {
		c.mu.RUnlock()
		return clientset, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if clientset, exists := c.clientsets[contextName]; exists {
		return clientset, nil
	}

	restConfig, err := c.getRestConfigLocked(contextName)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset for context %q: %w", contextName, err)
	}

	c.clientsets[contextName] = clientset

	return clientset, nil
}

// getDynamicClient returns a dynamic client for the specified context.
func (c *clusterClient) getDynamicClient(contextName string) (dynamic.Interface, error) {
	if contextName == "" {
		contextName = c.currentContext
	}

	c.mu.RLock()
	if dynamicClient, exists := c.dynamicClients[contextName]; exists {
		c.mu.RUnlock()
		return dynamicClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if dynamicClient, exists := c.dynamicClients[contextName]; exists {
		return dynamicClient, nil
	}

	restConfig, err := c.getRestConfigLocked(contextName)
	if err != nil {
		return nil, err
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client for context %q: %w", contextName, err)
	}

	c.dynamicClients[contextName] = dynamicClient

	return dynamicClient, nil
}

// getDiscoveryClient returns a discovery client for the specified context.
func (c *clusterClient) getDiscoveryClient(contextName string) (discovery.DiscoveryInterface, error) {
	if contextName == "" {
		contextName = c.currentContext
	}

	c.mu.RLock()
	if discoveryClient, exists := c.discoveryClients[contextName]; exists {
		c.mu.RUnlock()
		return discoveryClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if discoveryClient, exists := c.discoveryClients[contextName]; exists {
		return discoveryClient, nil
	}

	restConfig, err := c.getRestConfigLocked(contextName)
	if err != nil {
		return nil, err
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client for context %q: %w", contextName, err)
	}

	c.discoveryClients[contextName] = discoveryClient

	return discoveryClient, nil
}

// logOperation logs an operation for debugging purposes.
func (c *clusterClient) logOperation(operation, kubeContext, namespace, resource, name string) {
	if c.config.Logger != nil {
		c.config.Logger.Debug("kubernetes operation",
			logging.KeyOperation, operation,
			logging.KeyContext, kubeContext,
			logging.KeyNamespace, namespace,
			logging.KeyResourceType, resource,
			logging.KeyResourceName, name,
		)
	}
}

// Ping verifies API server connectivity by requesting the server version.
func (c *clusterClient) Ping(ctx context.Context, kubeContext string) error {
	discoveryClient, err := c.getDiscoveryClient(kubeContext)
	if err != nil {
		return err
	}

	if _, err := discoveryClient.ServerVersion(); err != nil {
		return fmt.Errorf("failed to reach API server: %w", err)
	}

	return nil
}
